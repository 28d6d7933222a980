// Copyright 2025, The akvm Authors

// Package asm is the two pass assembler for the akvm instruction set.
//
// Pass 1 binds labels and .DEF macros and computes the address of every
// line. Pass 2 expands macros once, resolves operands and emits bytes.
//
// Source format:
//
//	; comment
//	.DEF COUNT 10
//	START:
//	        MOVRI 0 COUNT
//	LOOP:
//	        DECR 0
//	        JNZ LOOP
//	        HLT
//	MSG:
//	        .STR "hello"
//	        .DB 0x0A 0
//
// Operands are labels, 0x hexadecimal, 0b binary, quoted characters,
// decimal integers, or $(...) expressions over labels and numeric macros.
package asm
