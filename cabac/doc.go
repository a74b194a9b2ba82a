/*
Package cabac implements the context-adaptive binary arithmetic coder used
by the GABAC entropy coding of MPEG-G descriptor subsequences.

The engine follows the HEVC design: a 9-bit range, byte-wise
renormalization and 64-state context models provided by package ctxmodel.
Besides context-coded bins the coder supports bypass bins with probability
1/2 and terminating bins. The encoder collects its output in memory; Flush
terminates the codeword and returns the bytes. The decoder works on a
payload of known length and never reads beyond it.
*/
package cabac
