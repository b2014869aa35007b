package resource

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Equipment is an item that can be installed in rooms.
type Equipment struct {
	ID          string
	Name        string
	Description string
}

// EquipmentPayload is the write representation of Equipment.
type EquipmentPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// DecodeEquipment parses a server equipment document.
func DecodeEquipment(data []byte) (Equipment, error) {
	obj, err := decodeObject(data)
	if err != nil {
		return Equipment{}, err
	}
	return equipmentFromObject(obj), nil
}

func equipmentFromObject(obj object) Equipment {
	return Equipment{
		ID:          obj.string("id"),
		Name:        obj.string("name"),
		Description: obj.string("description"),
	}
}

// EquipmentCreate returns the payload sent when creating equipment.
func EquipmentCreate(e Equipment) EquipmentPayload {
	return EquipmentPayload{Name: e.Name, Description: e.Description}
}

// EquipmentUpdate returns the payload sent when updating equipment.
func EquipmentUpdate(e Equipment) EquipmentPayload {
	return EquipmentCreate(e)
}

// ValidateEquipment checks the fields the API requires.
func ValidateEquipment(e Equipment) error {
	vErr := &ValidationError{}
	if strings.TrimSpace(e.Name) == "" {
		vErr.add("name", "name is required")
	}
	return vErr.errOrNil()
}

// ListEquipment fetches every equipment item.
func (c *Client) ListEquipment(ctx context.Context) ([]Equipment, error) {
	data, err := c.do(ctx, "ListEquipment", http.MethodGet, c.endpoint(equipmentPath, ""), nil)
	if err != nil {
		return nil, fmt.Errorf("list equipment: %w", err)
	}
	items, err := decodeArray(data)
	if err != nil {
		return nil, fmt.Errorf("list equipment: %w", err)
	}
	out := make([]Equipment, 0, len(items))
	for _, item := range items {
		e, err := DecodeEquipment(item)
		if err != nil {
			return nil, fmt.Errorf("list equipment: %w", err)
		}
		out = append(out, e)
	}
	return out, nil
}

// GetEquipment fetches one equipment item.
func (c *Client) GetEquipment(ctx context.Context, id string) (Equipment, error) {
	if strings.TrimSpace(id) == "" {
		return Equipment{}, ErrMissingID
	}
	data, err := c.do(ctx, "GetEquipment", http.MethodGet, c.endpoint(equipmentPath, id), nil)
	if err != nil {
		return Equipment{}, fmt.Errorf("get equipment: %w", err)
	}
	return DecodeEquipment(data)
}

// CreateEquipment creates e and returns the server confirmed item.
func (c *Client) CreateEquipment(ctx context.Context, e Equipment) (Equipment, error) {
	data, err := c.do(ctx, "CreateEquipment", http.MethodPost, c.endpoint(equipmentPath, ""), EquipmentCreate(e))
	if err != nil {
		return Equipment{}, fmt.Errorf("create equipment: %w", err)
	}
	return DecodeEquipment(data)
}

// UpdateEquipment replaces the writable fields of e.ID.
func (c *Client) UpdateEquipment(ctx context.Context, e Equipment) (Equipment, error) {
	if strings.TrimSpace(e.ID) == "" {
		return Equipment{}, ErrMissingID
	}
	data, err := c.do(ctx, "UpdateEquipment", http.MethodPut, c.endpoint(equipmentPath, e.ID), EquipmentUpdate(e))
	if err != nil {
		return Equipment{}, fmt.Errorf("update equipment: %w", err)
	}
	return DecodeEquipment(data)
}

// DeleteEquipment removes the equipment item with the given identifier.
func (c *Client) DeleteEquipment(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrMissingID
	}
	if _, err := c.do(ctx, "DeleteEquipment", http.MethodDelete, c.endpoint(equipmentPath, id), nil); err != nil {
		return fmt.Errorf("delete equipment: %w", err)
	}
	return nil
}
