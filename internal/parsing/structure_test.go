package parsing

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("decodeRecord", func() {
	var (
		reply  string
		record Record
		err    error
	)

	JustBeforeEach(func() {
		record, err = decodeRecord(reply)
	})

	When("the reply is a bare JSON object", func() {
		BeforeEach(func() {
			reply = `{"item_name": "AirPods Pro", "price": 249.0, "date": "15.03.2024", "vendor": "Apple", "model_number": "A2931", "description": "Earbuds", "category": "Electronics"}`
		})

		It("decodes every field", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(record.ItemName).To(Equal("AirPods Pro"))
			Expect(record.Price).To(Equal(Price(249.0)))
			Expect(record.Date).To(Equal("15.03.2024"))
			Expect(record.Vendor).To(Equal("Apple"))
			Expect(*record.ModelNumber).To(Equal("A2931"))
			Expect(record.Category).To(Equal(CategoryElectronics))
		})
	})

	When("the reply is wrapped in a markdown code fence", func() {
		BeforeEach(func() {
			reply = "```json\n{\"item_name\": \"Drill\", \"price\": 89, \"date\": \"\", \"vendor\": \"Hardware Co\", \"category\": \"Tools & Equipment\"}\n```"
		})

		It("strips the fence and decodes", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(record.ItemName).To(Equal("Drill"))
			Expect(record.Category).To(Equal(CategoryTools))
		})
	})

	When("the reply surrounds the object with prose", func() {
		BeforeEach(func() {
			reply = "Here is the extracted data:\n{\"item_name\": \"Sofa\", \"price\": 500, \"category\": \"Furniture\"}\nLet me know if you need more."
		})

		It("brackets out the JSON object", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(record.ItemName).To(Equal("Sofa"))
			Expect(record.Category).To(Equal(CategoryFurniture))
		})
	})

	When("the category is not in the enumeration", func() {
		BeforeEach(func() {
			reply = `{"item_name": "Mystery Box", "price": 10, "category": "Gadgets"}`
		})

		It("coerces the category to Other", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(record.Category).To(Equal(CategoryOther))
		})
	})

	When("the reply contains no JSON object", func() {
		BeforeEach(func() {
			reply = "not json"
		})

		It("returns an error", func() {
			Expect(err).To(HaveOccurred())
		})
	})

	When("the object is malformed", func() {
		BeforeEach(func() {
			reply = `{"item_name": "Broken`
		})

		It("returns an error", func() {
			Expect(err).To(HaveOccurred())
		})
	})
})

var _ = Describe("normalizeDate", func() {
	It("keeps DD.MM.YYYY dates as-is", func() {
		Expect(normalizeDate("05.01.2024")).To(Equal("05.01.2024"))
	})

	It("converts ISO dates", func() {
		Expect(normalizeDate("2024-01-05")).To(Equal("05.01.2024"))
	})

	It("converts year-first slash dates", func() {
		Expect(normalizeDate("2024/01/05")).To(Equal("05.01.2024"))
	})

	It("passes ambiguous slash dates through unchanged", func() {
		Expect(normalizeDate("05/01/2024")).To(Equal("05/01/2024"))
		Expect(normalizeDate("05-01-2024")).To(Equal("05-01-2024"))
	})

	It("keeps empty dates empty", func() {
		Expect(normalizeDate("")).To(Equal(""))
		Expect(normalizeDate("  ")).To(Equal(""))
	})

	It("passes unknown formats through trimmed", func() {
		Expect(normalizeDate(" March 5th, 2024 ")).To(Equal("March 5th, 2024"))
	})
})

var _ = Describe("Price", func() {
	decode := func(raw string) (Price, error) {
		var v struct {
			Price Price `json:"price"`
		}
		err := json.Unmarshal([]byte(`{"price": `+raw+`}`), &v)
		return v.Price, err
	}

	It("decodes plain numbers", func() {
		p, err := decode("19.99")
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(Equal(Price(19.99)))
	})

	It("decodes numeric strings", func() {
		p, err := decode(`"19.99"`)
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(Equal(Price(19.99)))
	})

	It("strips currency symbols and separators", func() {
		p, err := decode(`"$1,299.99"`)
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(Equal(Price(1299.99)))
	})

	It("treats null as zero", func() {
		p, err := decode("null")
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(Equal(Price(0)))
	})

	It("treats empty strings as zero", func() {
		p, err := decode(`""`)
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(Equal(Price(0)))
	})
})

var _ = Describe("ParseCategory", func() {
	It("accepts every enumerated category", func() {
		for _, c := range Categories() {
			Expect(ParseCategory(string(c))).To(Equal(c))
		}
	})

	It("ignores case and whitespace", func() {
		Expect(ParseCategory("  electronics ")).To(Equal(CategoryElectronics))
		Expect(ParseCategory("HOME APPLIANCES")).To(Equal(CategoryHomeAppliances))
	})

	It("maps unknown labels to Other", func() {
		Expect(ParseCategory("Gadgets")).To(Equal(CategoryOther))
		Expect(ParseCategory("")).To(Equal(CategoryOther))
	})
})

var _ = Describe("buildStructurePrompt", func() {
	It("embeds the text to analyze", func() {
		prompt := buildStructurePrompt("STORE A\nWidget\n$19.99")
		Expect(prompt).To(ContainSubstring("STORE A"))
		Expect(prompt).To(ContainSubstring("Return ONLY valid JSON"))
	})

	It("lists every category", func() {
		prompt := buildStructurePrompt("x")
		for _, c := range Categories() {
			Expect(prompt).To(ContainSubstring(`"` + string(c) + `"`))
		}
	})

	It("embeds at most the first 3000 characters", func() {
		long := strings.Repeat("~", 5000)
		prompt := buildStructurePrompt(long)
		Expect(strings.Count(prompt, "~")).To(Equal(3000))
	})

	It("counts characters rather than bytes when truncating", func() {
		long := strings.Repeat("数", 5000)
		prompt := buildStructurePrompt(long)
		Expect(strings.Count(prompt, "数")).To(Equal(3000))
		Expect(utf8.ValidString(prompt)).To(BeTrue())
	})
})
