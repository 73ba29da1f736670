package exchange

import (
	"encoding/json"
	"fmt"

	"github.com/pasperfection/checklist/internal/model"
)

func marshalJSON(items []*model.Item) ([]byte, error) {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func unmarshalJSON(data []byte) ([]*model.Item, error) {
	var items []*model.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decoding checklist JSON: %w", err)
	}
	return items, nil
}
