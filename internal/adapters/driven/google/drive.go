package google

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/custodia-labs/officelink/internal/core/domain"
	"github.com/custodia-labs/officelink/internal/core/ports/driven"
)

var _ driven.DriveGateway = (*DriveGateway)(nil)

// fileFields limits listing responses to the metadata the proxy
// actually surfaces.
const fileFields = "files(id,name,mimeType,modifiedTime,webViewLink)"

// DriveGateway lists and searches files through the Drive API. The
// gateway is metadata-only; file contents are never fetched.
type DriveGateway struct {
	limiter *RateLimiter
}

// NewDriveGateway creates the gateway with drive rate limits.
func NewDriveGateway() *DriveGateway {
	return &DriveGateway{limiter: NewRateLimiter(domain.ServiceDrive)}
}

func (g *DriveGateway) service(ctx context.Context, accessToken string) (*drive.Service, error) {
	svc, err := drive.NewService(ctx, option.WithTokenSource(tokenSource(accessToken)))
	if err != nil {
		return nil, fmt.Errorf("create drive client: %w", err)
	}
	return svc, nil
}

// ListFiles returns the most recently modified files.
func (g *DriveGateway) ListFiles(ctx context.Context, accessToken string, maxResults int64) ([]domain.DriveFile, error) {
	return g.list(ctx, accessToken, "", maxResults)
}

// SearchFiles returns files whose name contains the query string.
func (g *DriveGateway) SearchFiles(ctx context.Context, accessToken, query string, maxResults int64) ([]domain.DriveFile, error) {
	// Single quotes inside the query would terminate the q-string early.
	escaped := strings.ReplaceAll(query, `'`, `\'`)
	return g.list(ctx, accessToken, fmt.Sprintf("name contains '%s'", escaped), maxResults)
}

func (g *DriveGateway) list(ctx context.Context, accessToken, q string, maxResults int64) ([]domain.DriveFile, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	svc, err := g.service(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	call := svc.Files.List().
		Fields(fileFields).
		OrderBy("modifiedTime desc").
		Context(ctx)
	if q != "" {
		call = call.Q(q)
	}
	if maxResults > 0 {
		call = call.PageSize(maxResults)
	}

	resp, err := call.Do()
	if err != nil {
		g.limiter.Observe(err)
		return nil, wrapError(err)
	}

	files := make([]domain.DriveFile, 0, len(resp.Files))
	for _, f := range resp.Files {
		file := domain.DriveFile{
			ID:          f.Id,
			Name:        f.Name,
			MIMEType:    f.MimeType,
			WebViewLink: f.WebViewLink,
		}
		if f.ModifiedTime != "" {
			if t, perr := time.Parse(time.RFC3339, f.ModifiedTime); perr == nil {
				file.ModifiedAt = t
			}
		}
		files = append(files, file)
	}
	return files, nil
}
