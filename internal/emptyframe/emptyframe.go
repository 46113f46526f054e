// Package emptyframe generates placeholder RGBA frames used when a decode
// cannot produce real pixel data.
package emptyframe

// Generate returns a width*height*4-byte RGBA buffer filled with an opaque
// red pixel at every position. Opaque red is deliberately distinct from
// black so a caller can tell a placeholder frame apart from a genuinely
// dark decoded frame.
func Generate(width, height uint32) []byte {
	buf := make([]byte, int(width)*int(height)*4)
	for i := 0; i < len(buf); i += 4 {
		buf[i] = 255   // R
		buf[i+1] = 0   // G
		buf[i+2] = 0   // B
		buf[i+3] = 255 // A
	}
	return buf
}
