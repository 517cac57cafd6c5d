package meta

import "strconv"

// Magic identifies the kind of a meta document or of one of its items.
type Magic uint64

// Known magic numbers.
const (
	RainMetaDocumentV1             Magic = 0xff0a89c674ee7874
	SolidityAbiV2                  Magic = 0xffe5282f43e495b4
	OpMetaV1                       Magic = 0xffe9e3a02ca8e235
	DotrainV1                      Magic = 0xffdac2f2f37be894
	InterpreterCallerMetaV1        Magic = 0xffc21bbf86cc199b
	AuthoringMetaV1                Magic = 0xffe5ffb4a3ff2cde
	ExpressionDeployerV2BytecodeV1 Magic = 0xffdb988a8cd04d32
)

// Known reports whether m is one of the recognized magic numbers.
func (m Magic) Known() bool {
	switch m {
	case RainMetaDocumentV1,
		SolidityAbiV2,
		OpMetaV1,
		DotrainV1,
		InterpreterCallerMetaV1,
		AuthoringMetaV1,
		ExpressionDeployerV2BytecodeV1:
		return true
	default:
		return false
	}
}

// String returns the kebab-case name of the magic number, or its hex value if
// unknown.
func (m Magic) String() string {
	switch m {
	case RainMetaDocumentV1:
		return "rain-meta-document-v1"
	case SolidityAbiV2:
		return "solidity-abi-v2"
	case OpMetaV1:
		return "op-meta-v1"
	case DotrainV1:
		return "dotrain-v1"
	case InterpreterCallerMetaV1:
		return "interpreter-caller-meta-v1"
	case AuthoringMetaV1:
		return "authoring-meta-v1"
	case ExpressionDeployerV2BytecodeV1:
		return "expression-deployer-v2-bytecode-v1"
	default:
		return "0x" + strconv.FormatUint(uint64(m), 16)
	}
}
