package meta

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeDecode(t *testing.T) {
	words := AuthoringMeta{
		{Name: "add", Description: "adds"},
		{Name: "sub", Description: "subtracts", OperandParserOffset: 1},
	}

	raw, err := NewBuilder().
		Dotrain("#x 1").
		Deployer(words).
		Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}

	items, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	want := []Magic{DotrainV1, ExpressionDeployerV2BytecodeV1, AuthoringMetaV1}
	if len(items) != len(want) {
		t.Fatalf("Decode() got %d items, want %d", len(items), len(want))
	}

	for i, m := range want {
		if items[i].Magic != m {
			t.Errorf("item %d magic = %v, want %v", i, items[i].Magic, m)
		}
	}

	if got := string(items[0].Payload); got != "#x 1" {
		t.Errorf("dotrain payload = %q", got)
	}

	if items[2].ContentEncoding != "" {
		t.Errorf("authoring item still encoded: %q", items[2].ContentEncoding)
	}

	decoded, err := DecodeAuthoringMeta(items[2].Payload)
	if err != nil {
		t.Fatalf("DecodeAuthoringMeta() error = %v", err)
	}

	if got := decoded.Names(); len(got) != 2 || got[0] != "add" || got[1] != "sub" {
		t.Errorf("words = %v", got)
	}

	hash, err := ScanAuthoringHash(items[1].Payload)
	if err != nil {
		t.Fatalf("ScanAuthoringHash() error = %v", err)
	}

	if hash != Hash(items[2].Payload) {
		t.Errorf("declared hash = %s, want %s", hash, Hash(items[2].Payload))
	}
}

func TestDecodeCorrupt(t *testing.T) {
	valid, err := Encode(Item{Payload: []byte("x"), Magic: DotrainV1})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	unknown, err := Encode(Item{Payload: []byte("x"), Magic: Magic(0x1234)})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	badEncoding, err := Encode(Item{
		Payload:         []byte("x"),
		Magic:           DotrainV1,
		ContentEncoding: "brotli",
	})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short", []byte{0xff, 0x0a}},
		{"wrong prefix", append([]byte{0, 0, 0, 0, 0, 0, 0, 0}, valid[8:]...)},
		{"truncated", valid[:len(valid)-1]},
		{"unknown magic", unknown},
		{"unsupported encoding", badEncoding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			if !errors.Is(err, ErrCorruptMeta) {
				t.Errorf("Decode() error = %v, want %v", err, ErrCorruptMeta)
			}
		})
	}
}

func TestDecodeEmptySequence(t *testing.T) {
	raw, err := Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	items, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if len(items) != 0 {
		t.Errorf("Decode() = %d items, want 0", len(items))
	}

	if Consumable(items) {
		t.Error("empty sequence should not be consumable")
	}
}

func TestConsumable(t *testing.T) {
	item := func(m Magic) Item { return Item{Magic: m} }

	tests := []struct {
		name  string
		items []Item
		want  bool
	}{
		{"dotrain", []Item{item(DotrainV1)}, true},
		{"all three", []Item{
			item(DotrainV1),
			item(InterpreterCallerMetaV1),
			item(ExpressionDeployerV2BytecodeV1),
		}, true},
		{"authoring only", []Item{item(AuthoringMetaV1)}, false},
		{"two dotrains", []Item{item(DotrainV1), item(DotrainV1)}, false},
		{"two callers", []Item{
			item(InterpreterCallerMetaV1),
			item(InterpreterCallerMetaV1),
		}, false},
		{"two deployers", []Item{
			item(ExpressionDeployerV2BytecodeV1),
			item(ExpressionDeployerV2BytecodeV1),
			item(AuthoringMetaV1),
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Consumable(tt.items); got != tt.want {
				t.Errorf("Consumable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecodeCached(t *testing.T) {
	t.Cleanup(ClearCache)

	raw, err := NewBuilder().Dotrain("#a 1").Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}

	first, err := DecodeCached(raw)
	if err != nil {
		t.Fatalf("DecodeCached() error = %v", err)
	}

	first[0].Magic = OpMetaV1

	second, err := DecodeCached(bytes.Clone(raw))
	if err != nil {
		t.Fatalf("DecodeCached() error = %v", err)
	}

	if second[0].Magic != DotrainV1 {
		t.Errorf("cached items were modified through a returned slice")
	}

	if _, err := DecodeCached([]byte("junk")); !errors.Is(err, ErrCorruptMeta) {
		t.Errorf("DecodeCached(junk) error = %v", err)
	}
}

func TestMagicString(t *testing.T) {
	if got := DotrainV1.String(); got != "dotrain-v1" {
		t.Errorf("String() = %q", got)
	}

	if got := Magic(0xabc).String(); got != "0xabc" {
		t.Errorf("String() = %q", got)
	}

	if Magic(0xabc).Known() {
		t.Error("Known() = true for unknown magic")
	}
}
