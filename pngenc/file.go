package pngenc

import "os"

// EncodeFile writes the PNG encoding of bgra to the named file,
// creating or truncating it.
func EncodeFile(path string, bgra []byte, width, height, level int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := EncodeTo(f, bgra, width, height, level); err != nil {
		return err
	}
	return f.Close()
}
