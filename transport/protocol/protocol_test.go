package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func jsonFrameOf(t *testing.T, raw string) *Frame {
	t.Helper()
	f, err := JSON.Decode([]byte(raw))
	if err != nil {
		t.Fatalf("Failed to decode %s: %v", raw, err)
	}
	return f
}

func TestJSONCodec_Encode(t *testing.T) {
	data, err := JSON.Encode(PlayerMoved("abc", Player{X: 1, Y: 2, Angle: 3, Color: "#00f2ff"}))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	var got map[string]interface{}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Output is not JSON: %v", err)
	}
	if got["event"] != EventPlayerMoved {
		t.Errorf("Expected event %s, got %v", EventPlayerMoved, got["event"])
	}
	payload := got["data"].(map[string]interface{})
	if payload["id"] != "abc" {
		t.Errorf("Expected id abc, got %v", payload["id"])
	}
	player := payload["player"].(map[string]interface{})
	if player["color"] != "#00f2ff" || player["x"] != 1.0 {
		t.Errorf("Unexpected player %v", player)
	}
}

func TestJSONCodec_EncodeWithoutData(t *testing.T) {
	data, err := JSON.Encode(GameStarted())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if string(data) != `{"event":"gameStarted"}` {
		t.Errorf("Unexpected encoding %s", data)
	}
}

func TestJSONCodec_DecodeErrors(t *testing.T) {
	if _, err := JSON.Decode([]byte("not json")); err == nil {
		t.Error("Expected error for malformed frame")
	}
	if _, err := JSON.Decode([]byte(`{"data": 1}`)); !errors.Is(err, ErrMissingEvent) {
		t.Errorf("Expected ErrMissingEvent, got %v", err)
	}
}

func TestMsgPackCodec_RoundTrip(t *testing.T) {
	data, err := MsgPack.Encode(RoomJoined("QWER", "Nebula"))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	f, err := MsgPack.Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if f.Event != EventRoomJoined {
		t.Errorf("Expected event %s, got %s", EventRoomJoined, f.Event)
	}

	var payload RoomJoinedPayload
	if err := f.Bind(&payload); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	if payload.Code != "QWER" || payload.Name != "Nebula" {
		t.Errorf("Unexpected payload %+v", payload)
	}
}

func TestMsgPackCodec_ParseMovement(t *testing.T) {
	raw, err := msgpack.Marshal(map[string]interface{}{
		"event": EventPlayerMovement,
		"data":  map[string]interface{}{"x": 10, "y": 20.5, "rotation": 1.25},
	})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	f, err := MsgPack.Decode(raw)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	msg, err := Parse(f)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	move := msg.(PlayerMovement)
	if move.X != 10 || move.Y != 20.5 || move.Angle != 1.25 {
		t.Errorf("Unexpected movement %+v", move)
	}
}

func TestCodecByName(t *testing.T) {
	tests := []struct {
		name   string
		want   Codec
		binary bool
	}{
		{"", JSON, false},
		{"JSON", JSON, false},
		{"msgpack", MsgPack, true},
	}
	for _, tt := range tests {
		got, err := CodecByName(tt.name)
		if err != nil {
			t.Fatalf("CodecByName(%q) failed: %v", tt.name, err)
		}
		if got != tt.want || got.Binary() != tt.binary {
			t.Errorf("CodecByName(%q) = %s", tt.name, got.Name())
		}
	}

	if _, err := CodecByName("xml"); !errors.Is(err, ErrUnknownCodec) {
		t.Errorf("Expected ErrUnknownCodec, got %v", err)
	}
}

func TestParse(t *testing.T) {
	two := 2

	tests := []struct {
		name string
		raw  string
		want Message
	}{
		{"create with defaults", `{"event":"createRoom"}`, CreateRoom{}},
		{"create with null", `{"event":"createRoom","data":null}`, CreateRoom{}},
		{"create named", `{"event":"createRoom","data":{"name":"  Nebula ","maxPlayers":2}}`, CreateRoom{Name: "Nebula", MaxPlayers: &two}},
		{"create zero cap means default", `{"event":"createRoom","data":{"maxPlayers":0}}`, CreateRoom{}},
		{"create bare name", `{"event":"createRoom","data":"Nebula"}`, CreateRoom{Name: "Nebula"}},
		{"join bare code", `{"event":"joinRoom","data":" qwer "}`, JoinRoom{Code: "QWER"}},
		{"join object code", `{"event":"joinRoom","data":{"code":"abcd"}}`, JoinRoom{Code: "ABCD"}},
		{"join game room", `{"event":"joinGameRoom","data":"zxcv"}`, JoinGameRoom{Code: "ZXCV"}},
		{"leave", `{"event":"leaveRoom"}`, LeaveRoom{}},
		{"start ignores payload", `{"event":"startGame","data":{"x":1}}`, StartGame{}},
		{"movement", `{"event":"playerMovement","data":{"x":1,"y":2,"angle":3}}`, PlayerMovement{X: 1, Y: 2, Angle: 3}},
		{"movement rotation alias", `{"event":"playerMovement","data":{"x":1,"y":2,"rotation":-1.5}}`, PlayerMovement{X: 1, Y: 2, Angle: -1.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := Parse(jsonFrameOf(t, tt.raw))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if msg.Event() != tt.want.Event() {
				t.Fatalf("Expected %s, got %s", tt.want.Event(), msg.Event())
			}

			if create, ok := tt.want.(CreateRoom); ok {
				got := msg.(CreateRoom)
				if got.Name != create.Name {
					t.Errorf("Expected name %q, got %q", create.Name, got.Name)
				}
				if (got.MaxPlayers == nil) != (create.MaxPlayers == nil) {
					t.Fatalf("MaxPlayers presence mismatch: %v", got.MaxPlayers)
				}
				if got.MaxPlayers != nil && *got.MaxPlayers != *create.MaxPlayers {
					t.Errorf("Expected maxPlayers %d, got %d", *create.MaxPlayers, *got.MaxPlayers)
				}
				return
			}
			if msg != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, msg)
			}
		})
	}
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"unknown event", `{"event":"selfDestruct"}`, ErrUnknownEvent},
		{"join without code", `{"event":"joinRoom"}`, ErrInvalidPayload},
		{"join blank code", `{"event":"joinRoom","data":"   "}`, ErrInvalidPayload},
		{"join numeric code", `{"event":"joinRoom","data":1234}`, ErrInvalidPayload},
		{"join long code", `{"event":"joinRoom","data":"ABCDEFGHIJKLMNOPQ"}`, ErrInvalidPayload},
		{"create negative cap", `{"event":"createRoom","data":{"maxPlayers":-1}}`, ErrInvalidPayload},
		{"create huge cap", `{"event":"createRoom","data":{"maxPlayers":1000}}`, ErrInvalidPayload},
		{"create long name", `{"event":"createRoom","data":{"name":"` + string(bytes.Repeat([]byte("x"), 41)) + `"}}`, ErrInvalidPayload},
		{"movement missing angle", `{"event":"playerMovement","data":{"x":1,"y":2}}`, ErrInvalidPayload},
		{"movement missing payload", `{"event":"playerMovement"}`, ErrInvalidPayload},
		{"movement wrong types", `{"event":"playerMovement","data":{"x":"a","y":2,"angle":0}}`, ErrInvalidPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(jsonFrameOf(t, tt.raw))
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}
