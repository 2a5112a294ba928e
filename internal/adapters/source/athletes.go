package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/albanecoiffe/JO2024-visualization/internal/domain/model"
)

type athleteDocument struct {
	Athletes *struct {
		Hits json.RawMessage `json:"hits"`
	} `json:"athletes"`
}

// LoadAthleteDocuments reads the athlete export and returns its hits in
// document order. Nested fields are decoded as-is for the normalizer.
func LoadAthleteDocuments(ctx context.Context, path string) ([]model.RawAthlete, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &SourceError{Path: path, Err: ErrSourceNotFound}
		}
		return nil, &SourceError{Path: path, Err: err}
	}

	var doc athleteDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, formatError(path, "", "decode document: %v", err)
	}
	if doc.Athletes == nil || len(doc.Athletes.Hits) == 0 {
		return nil, formatError(path, "athletes.hits", "missing")
	}

	var hits []json.RawMessage
	if err := json.Unmarshal(doc.Athletes.Hits, &hits); err != nil || hits == nil {
		return nil, formatError(path, "athletes.hits", "not a list")
	}

	athletes := make([]model.RawAthlete, 0, len(hits))
	for i, hit := range hits {
		field := fmt.Sprintf("athletes.hits[%d]", i)
		trimmed := bytes.TrimSpace(hit)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			return nil, formatError(path, field, "not an object")
		}
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		var a model.RawAthlete
		if err := dec.Decode(&a); err != nil {
			return nil, formatError(path, field, "%v", err)
		}
		athletes = append(athletes, a)
	}
	return athletes, nil
}
