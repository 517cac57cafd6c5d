// Package meta implements the metadata side of Rain document resolution:
// the content-addressed [Store] contract consumed by package lang, a
// concurrency-safe in-memory implementation, and the codecs for the payloads
// a document import can resolve to.
//
// # Meta Documents
//
// Raw metadata is a Rain meta document: the 8-byte big-endian magic
// [RainMetaDocumentV1] followed by a CBOR sequence of maps, one per [Item]:
//
//	{0: payload, 1: magic, 2: content-type, 3: content-encoding, 4: content-language}
//
// Items with content-encoding "deflate" are inflated (zlib) by [Decode].
//
// # Payloads
//
// Three item kinds are consumable by an import:
//
//   - [DotrainV1]: the UTF-8 text of a nested document
//   - [ExpressionDeployerV2BytecodeV1]: deployer bytecode whose authoring
//     metadata (the words) is located through [HashQuery]
//   - [InterpreterCallerMetaV1]: contract metadata (JSON) describing context
//     columns and cells, flattened by [ContractMeta.Aliases]
//
// [AuthoringMetaV1] items carry the word list itself and are indexed by
// [MemStore] for [Store.AuthoringMeta] lookups.
//
// # Hashes
//
// Every key is a 0x-prefixed, lower-case, 64-digit hex Keccak-256 digest, see
// [Hash] and [IsHash].
package meta
