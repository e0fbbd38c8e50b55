package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"wardrobe-stylist/utils"
)

// DriveImageStore keeps wardrobe images in a Google Drive folder.
// The reference is the Drive file id.
type DriveImageStore struct {
	client   *drive.Service
	folderID string
}

// NewDriveImageStore creates a DriveImageStore.
// credentialsPath should be the path to the Service Account JSON file
func NewDriveImageStore(ctx context.Context, credentialsPath, folderID string) (*DriveImageStore, error) {
	if folderID == "" {
		return nil, fmt.Errorf("drive folder id is required")
	}

	// option.WithCredentialsFile automatically handles Service Account authentication
	client, err := drive.NewService(ctx, option.WithCredentialsFile(credentialsPath), option.WithScopes(drive.DriveFileScope))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &DriveImageStore{client: client, folderID: folderID}, nil
}

// Ensure DriveImageStore implements ImageStoreInterface
var _ ImageStoreInterface = (*DriveImageStore)(nil)

// Store uploads the image into the configured folder
func (s *DriveImageStore) Store(ctx context.Context, data []byte, suggestedName string) (string, error) {
	if err := ValidateImage(data); err != nil {
		return "", err
	}
	name, err := utils.SanitizeImageFileName(suggestedName)
	if err != nil {
		return "", err
	}

	file, err := s.client.Files.Create(&drive.File{
		Name:    name,
		Parents: []string{s.folderID},
	}).Media(bytes.NewReader(data)).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload image to drive: %w", err)
	}

	log.Printf("☁️  Image uploaded to Drive: name=%s id=%s", name, file.Id)
	return file.Id, nil
}

// Resolve downloads the image content
func (s *DriveImageStore) Resolve(ctx context.Context, ref string) ([]byte, error) {
	resp, err := s.client.Files.Get(ref).Context(ctx).Download()
	if err != nil {
		if isDriveNotFound(err) {
			return nil, fmt.Errorf("%s: %w", ref, ErrImageNotFound)
		}
		return nil, fmt.Errorf("failed to download image %s: %w", ref, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", ref, err)
	}
	return data, nil
}

// Remove deletes the Drive file; a missing file is not an error
func (s *DriveImageStore) Remove(ctx context.Context, ref string) error {
	if err := s.client.Files.Delete(ref).Context(ctx).Do(); err != nil && !isDriveNotFound(err) {
		return fmt.Errorf("failed to delete image %s from drive: %w", ref, err)
	}
	return nil
}

func isDriveNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}
