// Package cpu implements the byte image machine of the akvm system.
//
// The machine consists of a program counter, up to sixteen 16-bit registers,
// a bounded stack, byte addressed data memory, and ZERO/CARRY/SIGN flags.
// Code is fetched from the immutable loaded image; the image is also copied
// into data memory at address 0, so tables emitted by .DB and .STR can be
// loaded, but stores never modify the code being executed.
//
// Instructions are dispatched through a table of handlers keyed by opcode.
package cpu
