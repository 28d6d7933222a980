package cpu

// Memory is byte addressed data memory. Words are little endian.
type Memory []byte

func (mem Memory) check(address int, size int) (err error) {
	if address < 0 || address+size > len(mem) {
		err = ErrAddress(address)
	}
	return
}

func (mem Memory) Byte(address int) (value byte, err error) {
	err = mem.check(address, 1)
	if err != nil {
		return
	}

	value = mem[address]
	return
}

func (mem Memory) SetByte(address int, value byte) (err error) {
	err = mem.check(address, 1)
	if err != nil {
		return
	}

	mem[address] = value
	return
}

func (mem Memory) Word(address int) (value uint16, err error) {
	err = mem.check(address, 2)
	if err != nil {
		return
	}

	value = uint16(mem[address]) | uint16(mem[address+1])<<8
	return
}

func (mem Memory) SetWord(address int, value uint16) (err error) {
	err = mem.check(address, 2)
	if err != nil {
		return
	}

	mem[address] = byte(value & 0xff)
	mem[address+1] = byte(value >> 8)
	return
}
