package dto

// Task describes the payload shape of a request. It is a closed union;
// the encoder switches exhaustively over the concrete types below.
type Task interface {
	taskKind() string
}

// PlainTask sends the request as-is with an empty body.
type PlainTask struct{}

func (PlainTask) taskKind() string { return "plain" }

// ParamsTask appends the given values to the URL query string.
type ParamsTask struct {
	Params map[string]any
}

func (ParamsTask) taskKind() string { return "params" }

// JSONBodyTask serializes Body as a JSON request body.
type JSONBodyTask struct {
	Body any
}

func (JSONBodyTask) taskKind() string { return "json_body" }

// UploadFileTask buffers the file at Path into the request body.
// The whole file is read into memory at encode time; very large
// uploads should go through the multipart or s3 paths instead.
type UploadFileTask struct {
	Path string
}

func (UploadFileTask) taskKind() string { return "upload_file" }

// MultipartTask builds a multipart/form-data body from named parts.
type MultipartTask struct {
	Parts map[string]FormPart
}

func (MultipartTask) taskKind() string { return "multipart" }

// DownloadTask is identical to PlainTask; it marks the request as a
// body transfer so callers stream rather than buffer the response.
type DownloadTask struct{}

func (DownloadTask) taskKind() string { return "download" }

// ResumableDownloadTask requests a byte-range continuation. A nil
// Offset behaves exactly like DownloadTask.
type ResumableDownloadTask struct {
	Offset *int64
}

func (ResumableDownloadTask) taskKind() string { return "download_resumable" }

// FormPart is one field of a multipart body.
type FormPart interface {
	partKind() string
}

// BinaryPart is attached as a file part with filename and mime type.
type BinaryPart struct {
	Data     []byte
	Filename string
	MIMEType string
}

func (BinaryPart) partKind() string { return "binary" }

// TextPart is attached as a plain form field; Value is rendered via
// its default string representation.
type TextPart struct {
	Value any
}

func (TextPart) partKind() string { return "text" }
