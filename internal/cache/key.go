package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/BarkinBalci/churn-prediction-service/internal/dto"
)

// KeyPrefix namespaces every cached prediction
const KeyPrefix = "pred:"

// Key computes the cache fingerprint of a request's input features.
// Fields are serialized with sorted names so the key depends only on field values.
func Key(features *dto.CustomerFeatures) (string, error) {
	canonical, err := canonicalJSON(features)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(canonical)
	return KeyPrefix + hex.EncodeToString(hash[:]), nil
}

func canonicalJSON(features *dto.CustomerFeatures) ([]byte, error) {
	raw, err := json.Marshal(features)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal features: %w", err)
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var fields map[string]interface{}
	if err := decoder.Decode(&fields); err != nil {
		return nil, fmt.Errorf("failed to decode features: %w", err)
	}

	// encoding/json writes map keys in sorted order
	sorted, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal canonical features: %w", err)
	}
	return sorted, nil
}
