package netpipe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joy-dx/netpipe/client/s3client"
	"github.com/joy-dx/netpipe/dto"
	"github.com/joy-dx/netpipe/relays"
	"github.com/joy-dx/netpipe/utils"
)

// DownloadFile streams a file to disk with progress notifications.
// s3:// URLs are routed to a registered S3 transport; everything else
// goes through the streaming HTTP path with optional resume.
func (s *Service) DownloadFile(ctx context.Context, cfg *dto.DownloadFileConfig) error {
	if cfg == nil {
		return errors.New("nil DownloadFileConfig provided")
	}

	if cfg.OutputFileName == "" {
		// Try and get the filename from the URL and use the destination folder instead
		filename, err := utils.FilenameFromUrl(cfg.URL)
		if err != nil {
			return err
		}
		cfg.OutputFileName = filename
	}

	destination := filepath.Join(cfg.DestinationFolder, cfg.OutputFileName)

	if s.relay != nil {
		s.relay.Info(relays.RlyNetTransfer{
			Source:      cfg.URL,
			Destination: destination,
			Status:      dto.IN_PROGRESS,
			Percentage:  0,
			Msg:         fmt.Sprintf("starting download: %s", cfg.URL),
		})
	}

	if strings.HasPrefix(cfg.URL, "s3://") {
		return s.downloadFromS3(ctx, cfg, destination)
	}

	return s.downloadWithHTTP(ctx, cfg, destination)
}

// downloadWithHTTP streams via the registered HTTP transport with
// progress, resume, and the standard 401 refresh-and-retry.
func (s *Service) downloadWithHTTP(
	ctx context.Context,
	cfg *dto.DownloadFileConfig,
	destination string,
) error {
	client, err := s.downloadClient(cfg.ClientRef)
	if err != nil {
		return err
	}
	streamer, ok := client.(dto.StreamingTransport)
	if !ok {
		return fmt.Errorf("client %s cannot stream downloads", client.Ref())
	}

	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		s.notifyTransfer(dto.TransferNotification{
			Source:      cfg.URL,
			Destination: destination,
			Status:      dto.ERROR,
			Message:     err.Error(),
		})
		return fmt.Errorf("could not create destination folder %q: %w", destination, err)
	}

	var offset int64
	if cfg.Resume {
		if info, statErr := os.Stat(destination); statErr == nil {
			offset = info.Size()
		}
	}

	d := dto.NewDescriptor(cfg.URL, "")
	if offset > 0 {
		d.WithTask(dto.ResumableDownloadTask{Offset: &offset})
	} else {
		d.WithTask(dto.DownloadTask{})
	}

	stream, err := s.openStream(ctx, client, streamer, d)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			s.notifyTransfer(dto.TransferNotification{
				Source:      cfg.URL,
				Destination: destination,
				Status:      dto.STOPPED,
				Message:     err.Error(),
			})
			return err
		}
		s.notifyTransfer(dto.TransferNotification{
			Source:      cfg.URL,
			Destination: destination,
			Status:      dto.ERROR,
			Message:     err.Error(),
		})
		return err
	}
	defer stream.Body.Close()

	// The destination file is only touched after the status checks out;
	// a failed request must not clobber an existing partial file.
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	downloaded := int64(0)
	if stream.StatusCode == http.StatusPartialContent && offset > 0 {
		flags = os.O_WRONLY | os.O_APPEND
		downloaded = offset
	}

	out, err := os.OpenFile(destination, flags, 0o644)
	if err != nil {
		s.notifyTransfer(dto.TransferNotification{
			Source:      cfg.URL,
			Destination: destination,
			Status:      dto.ERROR,
			Message:     err.Error(),
		})
		return fmt.Errorf("could not open output file %q: %w", destination, err)
	}
	defer out.Close()

	total := stream.ContentLength
	if total > 0 {
		total += downloaded
	} else if s.relay != nil {
		s.relay.Warn(relays.RlyNetTransfer{Source: cfg.URL, Msg: "unknown file size"})
	}

	interval := s.cfg.DownloadCallbackInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	report := func(read, _ int64, percent float64, speed float64, eta time.Duration) {
		s.notifyTransfer(dto.TransferNotification{
			Source:      cfg.URL,
			Destination: destination,
			Status:      dto.IN_PROGRESS,
			Downloaded:  read,
			TotalSize:   total,
			Percentage:  percent,
		})
	}

	pr := &progressReader{
		ctx:        ctx,
		reader:     stream.Body,
		total:      total,
		readSoFar:  downloaded,
		interval:   interval,
		lastReport: time.Now(),
		startTime:  time.Now(),
		onProgress: report,
	}

	buf := make([]byte, 64*1024)
	_, err = io.CopyBuffer(out, pr, buf)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			s.notifyTransfer(dto.TransferNotification{
				Source:      cfg.URL,
				Destination: destination,
				Status:      dto.STOPPED,
			})
			return ctx.Err()
		}

		s.notifyTransfer(dto.TransferNotification{
			Source:      cfg.URL,
			Destination: destination,
			Status:      dto.ERROR,
			Message:     err.Error(),
		})
		return fmt.Errorf("file transfer failed for %s: %w", cfg.URL, err)
	}

	return s.finishDownload(cfg, destination, total)
}

// openStream runs encode+stream with classification. A 401 on an
// authorized call gets one refresh-and-retry, mirroring ExecuteOnce.
func (s *Service) openStream(
	ctx context.Context,
	client dto.TransportInterface,
	streamer dto.StreamingTransport,
	d *dto.Descriptor,
) (*dto.StreamResponse, error) {
	stream, err := s.attemptStream(ctx, client, streamer, d)
	if err != nil {
		return nil, err
	}

	category := dto.Classify(stream.StatusCode)
	switch category {
	case dto.Success:
		return stream, nil

	case dto.NotAuthorized:
		stream.Body.Close()
		if !d.Authorized || !s.refresh.AttemptRefresh(ctx) {
			return nil, &dto.HTTPError{StatusCode: stream.StatusCode, Category: dto.NotAuthorized}
		}
		retry, retryErr := s.attemptStream(ctx, client, streamer, d)
		if retryErr != nil {
			return nil, retryErr
		}
		retryCategory := dto.Classify(retry.StatusCode)
		if retryCategory == dto.Success {
			return retry, nil
		}
		retry.Body.Close()
		return nil, &dto.HTTPError{StatusCode: retry.StatusCode, Category: retryCategory}

	default:
		stream.Body.Close()
		return nil, &dto.HTTPError{StatusCode: stream.StatusCode, Category: category}
	}
}

func (s *Service) attemptStream(
	ctx context.Context,
	client dto.TransportInterface,
	streamer dto.StreamingTransport,
	d *dto.Descriptor,
) (*dto.StreamResponse, error) {
	wire, err := client.Encode(ctx, d)
	if err != nil {
		return nil, err
	}
	stream, err := streamer.Stream(ctx, wire)
	if err != nil {
		return nil, &dto.NetworkError{Err: err}
	}
	return stream, nil
}

// downloadFromS3 fetches an s3:// object through the registered S3
// transport. The SDK buffers the object; progress is start and end.
func (s *Service) downloadFromS3(
	ctx context.Context,
	cfg *dto.DownloadFileConfig,
	destination string,
) error {
	var client dto.TransportInterface
	if cfg.ClientRef != "" {
		var err error
		client, err = s.downloadClient(cfg.ClientRef)
		if err != nil {
			return err
		}
	} else {
		for _, candidate := range s.clients {
			if candidate.Type() == s3client.ClientTypeS3 {
				client = candidate
				break
			}
		}
		if client == nil {
			return errors.New("no S3 client registered for s3:// download")
		}
	}

	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return fmt.Errorf("could not create destination folder %q: %w", destination, err)
	}

	d := dto.NewDescriptor(cfg.URL, "").WithTask(dto.DownloadTask{})
	wire, err := client.Encode(ctx, d)
	if err != nil {
		s.notifyTransfer(dto.TransferNotification{
			Source:      cfg.URL,
			Destination: destination,
			Status:      dto.ERROR,
			Message:     err.Error(),
		})
		return err
	}

	resp, err := client.Do(ctx, wire)
	if err != nil {
		s.notifyTransfer(dto.TransferNotification{
			Source:      cfg.URL,
			Destination: destination,
			Status:      dto.ERROR,
			Message:     err.Error(),
		})
		return &dto.NetworkError{Err: err}
	}
	if category := dto.Classify(resp.StatusCode); category != dto.Success {
		s.notifyTransfer(dto.TransferNotification{
			Source:      cfg.URL,
			Destination: destination,
			Status:      dto.ERROR,
			Message:     fmt.Sprintf("bad status: %d", resp.StatusCode),
		})
		return &dto.HTTPError{StatusCode: resp.StatusCode, Category: category}
	}

	if err := os.WriteFile(destination, resp.Body, 0o644); err != nil {
		s.notifyTransfer(dto.TransferNotification{
			Source:      cfg.URL,
			Destination: destination,
			Status:      dto.ERROR,
			Message:     err.Error(),
		})
		return fmt.Errorf("could not write output file %q: %w", destination, err)
	}

	return s.finishDownload(cfg, destination, int64(len(resp.Body)))
}

// finishDownload runs checksum verification and emits the terminal
// notification shared by both download paths.
func (s *Service) finishDownload(cfg *dto.DownloadFileConfig, destination string, total int64) error {
	if cfg.Checksum != "" {
		if checkErr := utils.Sha256SumVerify(destination, cfg.Checksum); checkErr != nil {
			s.notifyTransfer(dto.TransferNotification{
				Source:      cfg.URL,
				Destination: destination,
				Status:      dto.ERROR,
				Percentage:  100,
				Message:     "failed to verify checksum",
			})
			return fmt.Errorf("checksum verification failed: %w", checkErr)
		}
	}

	s.notifyTransfer(dto.TransferNotification{
		Source:      cfg.URL,
		Destination: destination,
		Status:      dto.COMPLETE,
		Downloaded:  total,
		TotalSize:   total,
		Percentage:  100,
		Message:     "download complete",
	})
	return nil
}

func (s *Service) downloadClient(ref string) (dto.TransportInterface, error) {
	if ref == "" {
		ref = dto.DefaultClientRef
	}
	client, isOK := s.clients[ref]
	if !isOK {
		return nil, fmt.Errorf("client not found: %s", ref)
	}
	return client, nil
}
