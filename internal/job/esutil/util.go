// File: internal/job/esutil/util.go
package esutil

import (
	"encoding/json"
	"errors"
	"fmt"

	"referme_backend/internal/job"
)

// JobToElasticsearchDoc converts a job.Job to its Elasticsearch document representation.
func JobToElasticsearchDoc(j *job.Job) (string, error) {
	if j == nil {
		return "", errors.New("job cannot be nil")
	}

	doc := map[string]interface{}{
		"title":        j.Title,
		"company":      j.Company,
		"location":     j.Location,
		"description":  j.Description,
		"requirements": []string(j.Requirements),
		"slug":         j.Slug,
		"status":       j.Status,
		"posted_by_id": j.PostedByID.String(),
		"created_at":   j.CreatedAt,
	}

	docBytes, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("error marshalling job to JSON for ES: %w", err)
	}
	return string(docBytes), nil
}
