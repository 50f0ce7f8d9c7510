package fsio

import "os"

type Reader interface {
	ReadFile(name string) ([]byte, error)
}

type Writer interface {
	Create(name string) (*os.File, error)
	Write(file *os.File, buf []byte) error
}

type RealReader struct{}

func (r *RealReader) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }

type RealWriter struct{}

func (w *RealWriter) Create(name string) (*os.File, error) { return os.Create(name) }

func (w *RealWriter) Write(file *os.File, buf []byte) error {
	_, err := file.Write(buf)
	return err
}
