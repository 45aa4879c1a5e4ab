package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/custodia-labs/officelink/internal/core/domain"
	"github.com/custodia-labs/officelink/internal/core/ports/driven"
	"github.com/custodia-labs/officelink/internal/core/ports/driving"
)

// Ensure DriveService implements the interface.
var _ driving.DriveService = (*DriveService)(nil)

// DriveService proxies file listing and search. Both operations are
// read-only, so no audit entries are emitted.
type DriveService struct {
	tokens  *TokenService
	gateway driven.DriveGateway
	log     *zap.Logger
}

// NewDriveService creates the drive proxy service.
func NewDriveService(tokens *TokenService, gateway driven.DriveGateway, log *zap.Logger) *DriveService {
	return &DriveService{tokens: tokens, gateway: gateway, log: log}
}

// ListFiles returns the user's most recently modified files.
func (s *DriveService) ListFiles(ctx context.Context, userID string, maxResults int64) ([]domain.DriveFile, error) {
	var files []domain.DriveFile
	err := s.tokens.WithRefresh(ctx, userID, domain.ServiceDrive, func(ctx context.Context, accessToken string) error {
		listed, err := s.gateway.ListFiles(ctx, accessToken, maxResults)
		if err != nil {
			return err
		}
		files = listed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// Search returns files whose names contain the query.
func (s *DriveService) Search(ctx context.Context, userID, query string, maxResults int64) ([]domain.DriveFile, error) {
	var files []domain.DriveFile
	err := s.tokens.WithRefresh(ctx, userID, domain.ServiceDrive, func(ctx context.Context, accessToken string) error {
		found, err := s.gateway.SearchFiles(ctx, accessToken, query, maxResults)
		if err != nil {
			return err
		}
		files = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
