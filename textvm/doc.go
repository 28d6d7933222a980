// Package textvm runs programs written in the textual akvm dialect.
//
// A program has one instruction per line. Operands are decimal integers
// or label names, and `lbl NAME` binds NAME to the index of the next
// instruction:
//
//	; count down from 3
//	        set 0 3
//	        set 1 1
//	        set 2 0
//	lbl loop
//	        print 0
//	        sub 0 1
//	        cmp 0 2
//	        jmz done
//	        jmp loop
//	lbl done
//	        hlt
//
// Registers, the stack and memory hold integers.
package textvm
