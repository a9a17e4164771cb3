package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestUserResponseOmitsPassword(t *testing.T) {
	user := User{
		ID:        "user-1",
		Email:     "alice@example.com",
		Password:  "$2a$10$secrethash",
		Name:      "Alice Martin",
		CreatedAt: 1756000000,
		UpdatedAt: 1756000000,
	}

	resp := user.ToUserResponse()
	if resp.ID != user.ID || resp.Email != user.Email || resp.Name != user.Name {
		t.Errorf("ToUserResponse() = %+v", resp)
	}

	// The password must not survive serialization of either struct
	for _, v := range []interface{}{user, resp} {
		data, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if strings.Contains(string(data), "secrethash") {
			t.Errorf("serialized form leaks password: %s", data)
		}
	}
}
