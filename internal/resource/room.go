package resource

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Room is a bookable meeting room together with its installed equipment.
type Room struct {
	ID        string
	Name      string
	Capacity  int
	Equipment []Equipment
}

// EquipmentIDs returns the identifiers of the room's equipment in order.
func (r Room) EquipmentIDs() []string {
	ids := make([]string, 0, len(r.Equipment))
	for _, e := range r.Equipment {
		ids = append(ids, e.ID)
	}
	return ids
}

// Clone returns a copy that shares no slices with r.
func (r Room) Clone() Room {
	r.Equipment = append([]Equipment(nil), r.Equipment...)
	return r
}

// RoomPayload is the write representation of a Room. Equipment travels as
// identifiers only.
type RoomPayload struct {
	Name      string   `json:"name"`
	Capacity  int      `json:"capacity"`
	Equipment []string `json:"equipment"`
}

// DecodeRoom parses a server room document. Equipment entries may be full
// objects or bare identifiers.
func DecodeRoom(data []byte) (Room, error) {
	obj, err := decodeObject(data)
	if err != nil {
		return Room{}, err
	}
	return roomFromObject(obj), nil
}

func roomFromObject(obj object) Room {
	room := Room{
		ID:        obj.string("id"),
		Name:      obj.string("name"),
		Capacity:  obj.int("capacity"),
		Equipment: []Equipment{},
	}
	for _, raw := range obj.list("equipment") {
		if nested, err := decodeObject(raw); err == nil && len(nested) > 0 {
			room.Equipment = append(room.Equipment, equipmentFromObject(nested))
			continue
		}
		if id := referenceID(raw); id != "" {
			room.Equipment = append(room.Equipment, Equipment{ID: id})
		}
	}
	return room
}

// RoomCreate returns the payload sent when creating a room.
func RoomCreate(r Room) RoomPayload {
	return RoomPayload{
		Name:      r.Name,
		Capacity:  r.Capacity,
		Equipment: r.EquipmentIDs(),
	}
}

// RoomUpdate returns the payload sent when updating a room.
func RoomUpdate(r Room) RoomPayload {
	return RoomCreate(r)
}

// ValidateRoom checks the fields the API requires.
func ValidateRoom(r Room) error {
	vErr := &ValidationError{}
	if strings.TrimSpace(r.Name) == "" {
		vErr.add("name", "name is required")
	}
	if r.Capacity <= 0 {
		vErr.add("capacity", "capacity must be positive")
	}
	return vErr.errOrNil()
}

// ListRooms fetches every room.
func (c *Client) ListRooms(ctx context.Context) ([]Room, error) {
	data, err := c.do(ctx, "ListRooms", http.MethodGet, c.endpoint(roomsPath, ""), nil)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	items, err := decodeArray(data)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	rooms := make([]Room, 0, len(items))
	for _, item := range items {
		room, err := DecodeRoom(item)
		if err != nil {
			return nil, fmt.Errorf("list rooms: %w", err)
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

// GetRoom fetches one room.
func (c *Client) GetRoom(ctx context.Context, id string) (Room, error) {
	if strings.TrimSpace(id) == "" {
		return Room{}, ErrMissingID
	}
	data, err := c.do(ctx, "GetRoom", http.MethodGet, c.endpoint(roomsPath, id), nil)
	if err != nil {
		return Room{}, fmt.Errorf("get room: %w", err)
	}
	return DecodeRoom(data)
}

// CreateRoom creates r and returns the server confirmed room.
func (c *Client) CreateRoom(ctx context.Context, r Room) (Room, error) {
	data, err := c.do(ctx, "CreateRoom", http.MethodPost, c.endpoint(roomsPath, ""), RoomCreate(r))
	if err != nil {
		return Room{}, fmt.Errorf("create room: %w", err)
	}
	return DecodeRoom(data)
}

// UpdateRoom replaces the writable fields of r.ID.
func (c *Client) UpdateRoom(ctx context.Context, r Room) (Room, error) {
	if strings.TrimSpace(r.ID) == "" {
		return Room{}, ErrMissingID
	}
	data, err := c.do(ctx, "UpdateRoom", http.MethodPut, c.endpoint(roomsPath, r.ID), RoomUpdate(r))
	if err != nil {
		return Room{}, fmt.Errorf("update room: %w", err)
	}
	return DecodeRoom(data)
}

// DeleteRoom removes the room with the given identifier.
func (c *Client) DeleteRoom(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrMissingID
	}
	if _, err := c.do(ctx, "DeleteRoom", http.MethodDelete, c.endpoint(roomsPath, id), nil); err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	return nil
}
