// Package gabac codes descriptor subsequences of genomic data with the
// GABAC entropy coder.
//
// A subsequence is a slice of uint64 symbols. EncodeSubsequence applies the
// configured transform, splits every transformed stream into sub-symbols,
// binarizes them and codes the bins with a context-adaptive binary
// arithmetic coder. DecodeSubsequence reverses the process. Single streams
// can be coded with EncodeStream and DecodeStream.
//
// EncodeSimple and DecodeSimple code symbols with a binarization and a
// coding order against the builtin context table without a full
// configuration.
package gabac
