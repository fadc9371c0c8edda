package shares

// Reed-Solomon checksum over GF(1024) appended to every share.
const (
	checksumWords = 3

	customization           = "shamir"
	customizationExtendable = "shamir_extendable"
)

var rsGenerator = [10]uint32{
	0xE0E040, 0x1C1C080, 0x3838100, 0x7070200, 0xE0E0009,
	0x1C0C2412, 0x38086C24, 0x3090FC48, 0x21B1F890, 0x3F3F120,
}

func rs1024Polymod(custom string, values []int) uint32 {
	chk := uint32(1)
	step := func(v uint32) {
		b := chk >> 20
		chk = (chk&0xFFFFF)<<10 ^ v
		for i := range rsGenerator {
			if (b>>i)&1 != 0 {
				chk ^= rsGenerator[i]
			}
		}
	}
	for i := 0; i < len(custom); i++ {
		step(uint32(custom[i]))
	}
	for _, v := range values {
		step(uint32(v))
	}
	return chk
}

func checksumCustomization(extendable bool) string {
	if extendable {
		return customizationExtendable
	}
	return customization
}

// rs1024Checksum returns the checksum words for data.
func rs1024Checksum(extendable bool, data []int) []int {
	values := append(append([]int(nil), data...), make([]int, checksumWords)...)
	p := rs1024Polymod(checksumCustomization(extendable), values) ^ 1
	out := make([]int, checksumWords)
	for i := range out {
		out[i] = int(p>>(10*(checksumWords-1-i))) & 0x3FF
	}
	return out
}

func rs1024Verify(extendable bool, data []int) bool {
	return rs1024Polymod(checksumCustomization(extendable), data) == 1
}
