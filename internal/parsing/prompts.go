package parsing

import "strings"

// The prompt text below is part of the contract with the inference
// service: category assignment lives entirely in these instructions.
// Treat any wording change as a behavior change and cover it in tests.

// transcribePrompt asks a vision-capable model to read a receipt image.
const transcribePrompt = `Analyze this receipt/invoice image and extract all visible text and information.
Focus on:
- Product/item names
- Prices and amounts
- Dates
- Store/vendor information
- Model numbers or serial numbers
- Warranty information

Provide all extracted text clearly formatted.`

// structurePromptLimit bounds how much extracted text is embedded in the
// structuring prompt.
const structurePromptLimit = 3000

const structurePromptHeader = `You are an expert at analyzing receipts and invoices to extract product information. Analyze this text and extract the following information in JSON format:

REQUIRED FIELDS:
- item_name: The main product/item name (exactly as written)
- price: The total amount paid (just the number, no currency symbols)
- date: The purchase/invoice date (convert to DD.MM.YYYY format)
- vendor: The store/company/brand name
- model_number: Product model, SKU, or part number (null if not found)
- description: Brief product description
- category: Product category (see categories below)

CATEGORY DETECTION RULES:
Analyze the item name, vendor, and product details to determine the most appropriate category:

"Electronics" - for: phones, computers, tablets, headphones, earbuds, speakers, cameras, gaming devices, smart watches, chargers, cables, TV, monitors, keyboards, mice, electronic accessories
Examples: iPhone, AirPods, MacBook, Samsung Galaxy, PlayStation, Xbox, Apple Watch, wireless charger

"Home Appliances" - for: kitchen appliances, washing machines, refrigerators, microwaves, air conditioners, vacuum cleaners, small home devices
Examples: coffee maker, blender, dishwasher, iron, hair dryer, toaster

"Vehicles" - for: cars, motorcycles, bicycles, car parts, automotive accessories
Examples: Toyota Camry, Honda bike, car tires, brake pads

"Furniture" - for: chairs, tables, beds, sofas, storage furniture, office furniture
Examples: dining table, office chair, bookshelf, mattress

"Tools & Equipment" - for: power tools, hand tools, machinery, construction equipment, workshop items
Examples: drill, hammer, saw, toolbox, generator

"Jewelry" - for: rings, necklaces, watches (non-smart), precious metals, gems
Examples: gold ring, diamond necklace, luxury watch

"Art & Collectibles" - for: paintings, sculptures, collectible items, antiques, art supplies
Examples: artwork, vintage items, collectible cards

"Sports & Recreation" - for: sports equipment, gym gear, outdoor gear, games, recreational items
Examples: tennis racket, dumbbells, camping gear, board games

"Other" - for items that don't fit the above categories

IMPORTANT:
- Look at product names like "AirPods", "iPhone", "MacBook" → clearly "Electronics"
- Look at vendor names like "Apple", "Samsung", "Sony" → likely "Electronics"
- Be intelligent about categorization based on product context
- Always choose the most specific and appropriate category

Text to analyze:
`

const structurePromptFooter = `

Return ONLY valid JSON format with all required fields. No explanations or extra text.`

// buildStructurePrompt embeds up to structurePromptLimit characters of the
// extracted text into the structuring instruction. The limit counts runes
// so a multibyte character is never split at the cut.
func buildStructurePrompt(text string) string {
	if runes := []rune(text); len(runes) > structurePromptLimit {
		text = string(runes[:structurePromptLimit])
	}

	var b strings.Builder
	b.WriteString(structurePromptHeader)
	b.WriteString(text)
	b.WriteString(structurePromptFooter)
	return b.String()
}
