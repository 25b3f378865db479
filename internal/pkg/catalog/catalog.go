package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"callguard/internal/pkg/logger"
)

// A single named scam intent: its contribution to the spam score on first
// match, and its trigger phrases keyed by language code.
type Intent struct {
	Weight  float64             `json:"weight"`
	Phrases map[string][]string `json:"phrases"`
}

// Maps intent name to its definition. Loaded once, read-only afterwards.
type Catalog map[string]Intent

//go:embed spam_intents.json
var defaultCatalogRaw []byte

// Reads and validates an intent catalog from a JSON file.
func Load(path string) (Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read intent catalog: %w", err)
	}
	cat, err := parse(raw)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Loaded intent catalog",
		zap.String("path", path),
		zap.Int("intent_count", len(cat)))

	return cat, nil
}

// Returns the compiled-in catalog. The embedded document is covered by
// tests, so a parse failure here is a build defect.
func Default() Catalog {
	cat, err := parse(defaultCatalogRaw)
	if err != nil {
		panic(fmt.Sprintf("embedded intent catalog is invalid: %v", err))
	}
	return cat
}

func parse(raw []byte) (Catalog, error) {
	var cat Catalog
	if err := json.Unmarshal(raw, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse intent catalog: %w", err)
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

// Checks the schema invariants: at least one intent, positive weights,
// and a non-empty phrase map per intent.
func (c Catalog) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("intent catalog is empty")
	}
	for name, intent := range c {
		if intent.Weight <= 0 {
			return fmt.Errorf("intent %q has non-positive weight %v", name, intent.Weight)
		}
		if len(intent.Phrases) == 0 {
			return fmt.Errorf("intent %q has no phrases", name)
		}
		for lang, phrases := range intent.Phrases {
			if len(phrases) == 0 {
				return fmt.Errorf("intent %q has an empty phrase list for language %q", name, lang)
			}
		}
	}
	return nil
}
