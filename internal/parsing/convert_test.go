package parsing

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/image/bmp"
)

// pngFixture returns a tiny valid PNG image
func pngFixture() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.White)

	var buf bytes.Buffer
	Expect(png.Encode(&buf, img)).To(Succeed())
	return buf.Bytes()
}

// bmpFixture returns a tiny valid BMP image
func bmpFixture() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))

	var buf bytes.Buffer
	Expect(bmp.Encode(&buf, img)).To(Succeed())
	return buf.Bytes()
}

var _ = Describe("prepareImage", func() {
	When("given a PNG", func() {
		It("passes the bytes through untouched", func() {
			in := pngFixture()
			out, format, err := prepareImage(in, "image/png")
			Expect(err).NotTo(HaveOccurred())
			Expect(format).To(Equal("png"))
			Expect(out).To(Equal(in))
		})
	})

	When("given a BMP", func() {
		It("re-encodes to PNG", func() {
			out, format, err := prepareImage(bmpFixture(), "image/bmp")
			Expect(err).NotTo(HaveOccurred())
			Expect(format).To(Equal("png"))

			_, err = png.Decode(bytes.NewReader(out))
			Expect(err).NotTo(HaveOccurred())
		})
	})

	When("the content type is missing", func() {
		It("sniffs BMP bytes and re-encodes to PNG", func() {
			out, format, err := prepareImage(bmpFixture(), "")
			Expect(err).NotTo(HaveOccurred())
			Expect(format).To(Equal("png"))

			_, err = png.Decode(bytes.NewReader(out))
			Expect(err).NotTo(HaveOccurred())
		})

		It("passes sniffed PNG bytes through untouched", func() {
			in := pngFixture()
			out, format, err := prepareImage(in, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(format).To(Equal("png"))
			Expect(out).To(Equal(in))
		})
	})

	When("the declared content type contradicts the bytes", func() {
		It("trusts the bytes", func() {
			out, format, err := prepareImage(bmpFixture(), "image/png")
			Expect(err).NotTo(HaveOccurred())
			Expect(format).To(Equal("png"))

			_, err = png.Decode(bytes.NewReader(out))
			Expect(err).NotTo(HaveOccurred())
		})
	})

	When("given undecodable bytes in a convertible format", func() {
		It("returns an error", func() {
			_, _, err := prepareImage([]byte("garbage"), "image/tiff")
			Expect(err).To(HaveOccurred())
		})
	})
})

var _ = Describe("imageFormat", func() {
	It("derives the format from the MIME subtype", func() {
		Expect(imageFormat("image/jpeg")).To(Equal("jpeg"))
		Expect(imageFormat("image/webp")).To(Equal("webp"))
	})

	It("maps jpg onto jpeg", func() {
		Expect(imageFormat("image/jpg")).To(Equal("jpeg"))
	})

	It("defaults to png when the subtype is missing", func() {
		Expect(imageFormat("")).To(Equal("png"))
		Expect(imageFormat("image")).To(Equal("png"))
	})
})
