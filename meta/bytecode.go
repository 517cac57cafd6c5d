package meta

import (
	"encoding/hex"
	"log/slog"
)

// HashQuery extracts the authoring-meta hash a deployer bytecode declares.
type HashQuery func(bytecode []byte) (string, error)

const (
	opPush1  = 0x60
	opPush32 = 0x7f
	opMstore = 0x52
	opReturn = 0xf3
)

// ScanAuthoringHash is the default [HashQuery]. It walks the bytecode opcode
// by opcode, skipping push immediates, and returns the first 32-byte push
// immediate as a hash.
func ScanAuthoringHash(bytecode []byte) (string, error) {
	for pc := 0; pc < len(bytecode); pc++ {
		op := bytecode[pc]
		if op < opPush1 || op > opPush32 {
			continue
		}

		size := int(op-opPush1) + 1

		if op == opPush32 && pc+1+size <= len(bytecode) {
			return "0x" + hex.EncodeToString(bytecode[pc+1:pc+1+size]), nil
		}

		pc += size
	}

	return "", ErrNotFound.With(
		slog.String("query", "authoring meta hash"),
		slog.Int("size", len(bytecode)),
	)
}

// DeployerBytecode returns a minimal runtime bytecode that returns hash as
// its only 32-byte word, the shape [ScanAuthoringHash] understands.
func DeployerBytecode(hash string) ([]byte, error) {
	raw, err := HashBytes(hash)
	if err != nil {
		return nil, err
	}

	code := make([]byte, 0, len(raw)+9)
	code = append(code, opPush32)
	code = append(code, raw...)
	code = append(code,
		opPush1, 0x00, opMstore,
		opPush1, 0x20, opPush1, 0x00, opReturn,
	)

	return code, nil
}
