package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DocumentLister lists the documents stored in a folder.
type DocumentLister interface {
	ListDocuments(ctx context.Context, folderID string) ([]Document, error)
}

// DriveLister lists PDFs of a Google Drive folder through the Drive API,
// authenticated with a service account the folder is shared with.
type DriveLister struct {
	client *drive.Service
}

// NewDriveLister creates a DriveLister from a service account JSON file.
func NewDriveLister(ctx context.Context, credentialsPath string) (*DriveLister, error) {
	svc, err := drive.NewService(ctx,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(drive.DriveReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return &DriveLister{client: svc}, nil
}

// driveFolderQuery builds the Files.List query for the PDFs of a folder.
func driveFolderQuery(folderID string) string {
	id := strings.ReplaceAll(folderID, `'`, `\'`)
	return fmt.Sprintf("'%s' in parents and mimeType='application/pdf' and trashed=false", id)
}

// ListDocuments returns every PDF of the folder sorted by name, following
// result pages until exhausted.
func (l *DriveLister) ListDocuments(ctx context.Context, folderID string) ([]Document, error) {
	var files []*drive.File
	pageToken := ""
	for {
		call := l.client.Files.List().
			Context(ctx).
			Q(driveFolderQuery(folderID)).
			Fields("nextPageToken, files(id, name, description, webViewLink)").
			PageSize(200)

		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		r, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list drive folder %s: %w", folderID, err)
		}

		files = append(files, r.Files...)
		pageToken = r.NextPageToken
		if pageToken == "" {
			break
		}
	}

	docs := make([]Document, 0, len(files))
	for _, f := range files {
		docs = append(docs, driveFileDocument(f))
	}
	sort.SliceStable(docs, func(i, j int) bool { return docs[i].Title < docs[j].Title })
	return docs, nil
}

func driveFileDocument(f *drive.File) Document {
	link := f.WebViewLink
	if link == "" {
		link = "https://drive.google.com/file/d/" + f.Id + "/view"
	}
	title := strings.TrimSuffix(f.Name, ".pdf")
	title = strings.TrimSuffix(title, ".PDF")
	return Document{
		Title:       title,
		Category:    "Drive",
		URL:         link,
		Description: f.Description,
	}
}
