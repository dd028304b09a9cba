package dto

import "testing"

func TestClassify_Golden(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status int
		want   StatusCategory
	}{
		{status: 100, want: Informational},
		{status: 101, want: Informational},
		{status: 200, want: Success},
		{status: 201, want: Success},
		{status: 204, want: Success},
		{status: 206, want: Success},
		{status: 301, want: Redirect},
		{status: 307, want: Redirect},
		{status: 400, want: ClientError},
		{status: 401, want: NotAuthorized},
		{status: 402, want: ClientError},
		{status: 403, want: ClientError},
		{status: 404, want: NotFound},
		{status: 405, want: ClientError},
		{status: 418, want: ClientError},
		{status: 419, want: ClientError},
		{status: 429, want: ClientError},
		{status: 500, want: ServerError},
		{status: 503, want: ServerError},
		{status: 599, want: ServerError},
		{status: 0, want: UnknownStatus},
		{status: 99, want: UnknownStatus},
		{status: 600, want: UnknownStatus},
	}

	for _, c := range cases {
		if got := Classify(c.status); got != c.want {
			t.Fatalf("Classify(%d) = %s; want %s", c.status, got, c.want)
		}
	}
}
