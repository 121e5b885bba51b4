package document

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Store persists rendered preview documents per project. A handle names one
// installed document; handles are never reused.
type Store interface {
	Put(ctx context.Context, projectID, handle string, doc []byte) error
	Get(ctx context.Context, projectID, handle string) ([]byte, error)
	GetURL(ctx context.Context, projectID, handle string) (string, error)
	List(ctx context.Context, projectID string) ([]string, error)
	Delete(ctx context.Context, projectID, handle string) error
}

var ErrNotFound = errors.New("document not found")

const objectSuffix = ".html"

func normalizeKey(projectID, handle string) (string, string, error) {
	projectID = strings.TrimSpace(projectID)
	handle = strings.TrimSpace(handle)
	if projectID == "" {
		return "", "", fmt.Errorf("project_id is required")
	}
	if strings.Contains(projectID, "/") {
		return "", "", fmt.Errorf("project_id must not contain '/'")
	}
	if handle == "" {
		return "", "", fmt.Errorf("handle is required")
	}
	if strings.ContainsAny(handle, "/\\") {
		return "", "", fmt.Errorf("handle must not contain path separators")
	}
	return projectID, handle, nil
}

func normalizeProject(projectID string) (string, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return "", fmt.Errorf("project_id is required")
	}
	return projectID, nil
}

func objectKey(projectID, handle string) string {
	return projectID + "/" + handle + objectSuffix
}
