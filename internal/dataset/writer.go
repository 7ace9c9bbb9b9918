package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/boilerbrain-ai/boilerbrain/internal/domain"
)

// WriteJSONL writes examples to path, one JSON object per line.
func WriteJSONL(path string, examples []Example) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, example := range examples {
		if err := enc.Encode(example); err != nil {
			return fmt.Errorf("encode example: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

// Export builds the deterministic train/eval split and writes both files.
// It returns the number of examples written to each.
func Export(records []*domain.FaultRecord, trainPath, evalPath string) (int, int, error) {
	train, eval, err := Split(records)
	if err != nil {
		return 0, 0, err
	}

	if err := WriteJSONL(trainPath, train); err != nil {
		return 0, 0, err
	}
	if err := WriteJSONL(evalPath, eval); err != nil {
		return 0, 0, err
	}

	return len(train), len(eval), nil
}
