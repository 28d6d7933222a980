// Package isa defines the akvm instruction set.
//
// Every instruction is a one byte opcode followed by zero to three operand
// bytes, as selected by its operand Format. Register operands are packed
// two per byte as 4-bit fields, immediates are 16-bit little-endian words.
// The package also holds the error classes shared by the assembler and the
// virtual machines.
package isa
