/*
Package hash provides rolling hashes over sequences of 64-bit symbols.

Match coding uses the hashes to find earlier occurrences of the symbol
sequence starting at the current position. The package provides the
Rabin-Karp rolling hash and a chained index of hashed positions.
*/
package hash
