// Package templates builds ready-made element groups for common page parts.
// Every factory is deterministic for a given canvas size and returns a group
// whose ids are assigned on insert.
package templates

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/ideaspark/wireframe/internal/scene"
)

var ErrUnknownTemplate = errors.New("unknown template")

type Factory func(canvas scene.Size) scene.Element

var registry = map[string]Factory{
	"header":         Header,
	"hero":           Hero,
	"product-grid":   ProductGrid,
	"footer":         Footer,
	"search-bar":     SearchBar,
	"card":           Card,
	"form":           Form,
	"nav-bar":        NavBar,
	"call-to-action": CallToAction,
	"testimonial":    Testimonial,
	"section": func(c scene.Size) scene.Element {
		return Section(c, "Section Title", "Add a short description of this section here.")
	},
	"pricing-table":     PricingTable,
	"dashboard-header":  DashboardHeader,
	"dashboard-content": DashboardContent,
}

// Names returns the registered template names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Build runs the named factory.
func Build(name string, canvas scene.Size) (scene.Element, error) {
	f, ok := registry[strings.ToLower(name)]
	if !ok {
		return scene.Element{}, fmt.Errorf("template %q: %w", name, ErrUnknownTemplate)
	}
	return f(fitCanvas(canvas)), nil
}

// minCanvasWidth is the narrowest canvas every template lays out on.
const minCanvasWidth = 320

func fitCanvas(c scene.Size) scene.Size {
	if c.Width <= 0 || c.Height <= 0 {
		return scene.DefaultCanvas
	}
	c.Width = max(c.Width, minCanvasWidth)
	return c
}

// Ecommerce is the storefront page: header, hero, product grid and footer.
func Ecommerce(canvas scene.Size) []scene.Element {
	return []scene.Element{Header(canvas), Hero(canvas), ProductGrid(canvas), Footer(canvas)}
}

// Dashboard is the admin page: top bar and sidebar with metric cards.
func Dashboard(canvas scene.Size) []scene.Element {
	return []scene.Element{DashboardHeader(canvas), DashboardContent(canvas)}
}

func Header(canvas scene.Size) scene.Element {
	inner := canvas.Width - 100
	b := at(50, 20).
		rect(0, 0, inner, 60, scene.Shape{Fill: "#ffffff", Stroke: "#f0f0f0", StrokeWidth: 1}).
		text(20, 20, scene.Text{Content: "Logo", FontSize: 18, FontWeight: "bold"})
	for i, item := range []string{"Shop", "Subscribe", "About"} {
		b.text(120+float64(i)*100, 20, scene.Text{Content: item, FontSize: 16})
	}
	return b.
		rect(inner-230, 15, 180, 30, scene.Shape{Fill: "#f9f9f9", Stroke: "#e5e5e5", StrokeWidth: 1, CornerRadius: 4}).
		text(inner-220, 22, scene.Text{Content: "Search product", FontSize: 14, Color: "#999999"}).
		build()
}

func Hero(canvas scene.Size) scene.Element {
	inner := canvas.Width - 100
	contentLeft := inner/2 + 30
	return at(50, 100).
		rect(0, 0, inner, 300, scene.Shape{Fill: "#f6f6f6", Stroke: "#e0e0e0", StrokeWidth: 1}).
		add(30, 30, max(inner/2-60, 50), 240, scene.Image{Alt: "Hero image", Fill: "#e0e0e0", Stroke: "#d0d0d0"}).
		text(contentLeft, 50, scene.Text{Content: "Welcome to our\nHerbal Tea Shop!", FontSize: 24, FontWeight: "bold", Align: "left"}).
		text(contentLeft, 120, scene.Text{
			Content:  "At our shop, we believe in the power of herbs to heal and\nnourish the body. That's why we've carefully curated a\ncollection of the finest organic herbs and blends.",
			FontSize: 14,
			Align:    "left",
		}).
		add(contentLeft, 210, 120, 40, scene.Button{Label: "Shop now", Fill: "#333333", Color: "#ffffff", CornerRadius: 4, FontSize: 14}).
		build()
}

func ProductGrid(canvas scene.Size) scene.Element {
	inner := canvas.Width - 100
	b := at(50, 420).
		rect(0, 0, inner, 400, scene.Shape{Fill: "#ffffff", Stroke: "#f0f0f0", StrokeWidth: 1}).
		text(20, 20, scene.Text{Content: "Green Tea Selection", FontSize: 22, FontWeight: "bold"}).
		text(20, 70, scene.Text{Content: "Filter", FontSize: 16, FontWeight: "bold"})

	for i, name := range []string{"Black Tea", "Green tea", "Rooibos tea", "White tea"} {
		fill := "transparent"
		if i == 1 {
			fill = "#f0f0f0"
		}
		x := 20 + float64(i)*110
		b.rect(x, 100, 100, 30, scene.Shape{Fill: fill, Stroke: "#d0d0d0", StrokeWidth: 1, CornerRadius: 15})
		b.text(x+15, 108, scene.Text{Content: name, FontSize: 12})
	}

	cardWidth := max(min(250, (inner-40)/3-20), 60)
	const cardHeight, spacing = 120.0, 20.0
	imageSize := cardHeight - 40
	for row := 0; row < 2; row++ {
		for col := 0; col < 3; col++ {
			x := 20 + float64(col)*(cardWidth+spacing)
			y := 150 + float64(row)*(cardHeight+spacing)
			b.add(x, y, cardWidth, cardHeight, scene.Card{Fill: "#ffffff", Stroke: "#e0e0e0", CornerRadius: 4})
			b.add(x+10, y+10, imageSize, imageSize, scene.Image{Alt: "Product", Fill: "#f0f0f0"})
			b.text(x+imageSize+20, y+20, scene.Text{Content: "Green Tea", FontSize: 14, FontWeight: "bold"})
			b.text(x+imageSize+20, y+45, scene.Text{Content: "$20", FontSize: 14, FontWeight: "bold"})
		}
	}
	return b.build()
}

func Footer(canvas scene.Size) scene.Element {
	inner := canvas.Width - 100
	b := at(50, 840).
		rect(0, 0, inner, 200, scene.Shape{Fill: "#333333"})

	column := inner / 4
	for i, title := range []string{"Help", "About", "Legal", "Contact"} {
		x := 30 + float64(i)*column
		b.text(x, 30, scene.Text{Content: title, FontSize: 16, FontWeight: "bold", Color: "#ffffff"})
		for j := 1; j <= 3; j++ {
			b.text(x, 35+float64(j)*25, scene.Text{Content: fmt.Sprintf("Item %d", j), FontSize: 14, Color: "#ffffff"})
		}
	}

	left := inner - 240
	return b.
		rect(left-10, 20, 230, 160, scene.Shape{Fill: "#444444", Stroke: "#555555", StrokeWidth: 1, CornerRadius: 8}).
		text(left, 30, scene.Text{Content: "Join our newsletter", FontSize: 16, FontWeight: "bold", Color: "#ffffff"}).
		rect(left, 60, 200, 40, scene.Shape{Fill: "#ffffff", CornerRadius: 4}).
		text(left+10, 72, scene.Text{Content: "Enter your email address", FontSize: 14, Color: "#999999"}).
		add(left, 110, 120, 40, scene.Button{Label: "Subscribe now", Fill: "#555555", Color: "#ffffff", CornerRadius: 4, FontSize: 14}).
		build()
}

func SearchBar(scene.Size) scene.Element {
	return at(100, 100).
		rect(0, 0, 300, 40, scene.Shape{Fill: "#f9f9f9", Stroke: "#e5e5e5", StrokeWidth: 1, CornerRadius: 4}).
		text(15, 12, scene.Text{Content: "Search...", FontSize: 14, Color: "#999999"}).
		rect(270, 12, 16, 16, scene.Shape{Stroke: "#999999", StrokeWidth: 2, CornerRadius: 8}).
		build()
}

func Card(scene.Size) scene.Element {
	return at(100, 100).
		add(0, 0, 250, 300, scene.Card{Fill: "#ffffff", Stroke: "#e0e0e0", CornerRadius: 8}).
		rect(0, 0, 250, 150, scene.Shape{Fill: "#f0f0f0", CornerRadius: 8}).
		text(20, 165, scene.Text{Content: "Card Title", FontSize: 18, FontWeight: "bold"}).
		wrapped(20, 195, 210, 3, scene.Text{Content: "This is a card component with sample text content that can be used in wireframes.", FontSize: 14}).
		add(20, 250, 100, 30, scene.Button{Label: "Read More", Fill: "#4a85f0", Color: "#ffffff", CornerRadius: 4, FontSize: 14}).
		build()
}

func Form(scene.Size) scene.Element {
	field := scene.Shape{Fill: "#f9f9f9", Stroke: "#e0e0e0", StrokeWidth: 1, CornerRadius: 4}
	return at(100, 100).
		rect(0, 0, 400, 380, scene.Shape{Fill: "#ffffff", Stroke: "#e0e0e0", StrokeWidth: 1, CornerRadius: 8}).
		text(20, 20, scene.Text{Content: "Contact Form", FontSize: 20, FontWeight: "bold"}).
		text(20, 60, scene.Text{Content: "Name", FontSize: 14}).
		rect(20, 85, 360, 40, field).
		text(20, 140, scene.Text{Content: "Email", FontSize: 14}).
		rect(20, 165, 360, 40, field).
		text(20, 220, scene.Text{Content: "Message", FontSize: 14}).
		rect(20, 245, 360, 60, field).
		add(20, 320, 120, 40, scene.Button{Label: "Submit", Fill: "#4a85f0", Color: "#ffffff", CornerRadius: 4, FontSize: 16}).
		build()
}

func NavBar(canvas scene.Size) scene.Element {
	inner := canvas.Width - 100
	b := at(50, 20).
		rect(0, 0, inner, 60, scene.Shape{Fill: "#333333"}).
		text(30, 20, scene.Text{Content: "LOGO", FontSize: 20, FontWeight: "bold", Color: "#ffffff"})
	for i, item := range []string{"Home", "About", "Products", "Blog", "Contact"} {
		b.text(300+float64(i)*100, 20, scene.Text{Content: item, FontSize: 16, Color: "#ffffff"})
	}
	return b.
		add(inner-130, 15, 100, 30, scene.Button{Label: "Sign Up", Fill: "#4a85f0", Color: "#ffffff", CornerRadius: 4, FontSize: 14}).
		build()
}

func CallToAction(scene.Size) scene.Element {
	return at(100, 100).
		rect(0, 0, 500, 200, scene.Shape{Fill: "rgba(74,133,240,0.1)", CornerRadius: 8}).
		text(100, 50, scene.Text{Content: "Ready to Get Started?", FontSize: 24, FontWeight: "bold", Color: "#333333"}).
		text(30, 90, scene.Text{Content: "Join thousands of satisfied customers using our product", FontSize: 16, Color: "#666666"}).
		add(170, 130, 160, 50, scene.Button{Label: "Sign Up for Free", Fill: "#4a85f0", Color: "#ffffff", CornerRadius: 4, FontSize: 16}).
		build()
}

func Testimonial(scene.Size) scene.Element {
	return at(100, 100).
		rect(0, 0, 300, 200, scene.Shape{Fill: "#ffffff", Stroke: "#e0e0e0", StrokeWidth: 1, CornerRadius: 8}).
		rect(120, 15, 60, 60, scene.Shape{Fill: "#f0f0f0", CornerRadius: 30}).
		wrapped(30, 80, 240, 3, scene.Text{
			Content:  `"This product has completely transformed how we work. The features are intuitive and the support team is outstanding!"`,
			FontSize: 14,
			Align:    "center",
		}).
		text(105, 145, scene.Text{Content: "Jane Smith", FontSize: 16, FontWeight: "bold"}).
		text(90, 170, scene.Text{Content: "CEO, Company Inc.", FontSize: 12, Color: "#666666"}).
		build()
}

// Section is a titled content band spanning the canvas.
func Section(canvas scene.Size, title, description string) scene.Element {
	inner := canvas.Width - 100
	return at(50, 100).
		rect(0, 0, inner, 300, scene.Shape{Fill: "#ffffff", Stroke: "#e0e0e0", StrokeWidth: 1}).
		text(inner/2-100, 30, scene.Text{Content: title, FontSize: 24, FontWeight: "bold", Align: "center"}).
		wrapped(inner/2-200, 70, 400, 2, scene.Text{Content: description, FontSize: 16, Align: "center"}).
		build()
}

func PricingTable(canvas scene.Size) scene.Element {
	inner := canvas.Width - 100
	b := at(50, 100).
		rect(0, 0, inner, 400, scene.Shape{Fill: "#ffffff", Stroke: "#f0f0f0", StrokeWidth: 1}).
		text(inner/2-70, 20, scene.Text{Content: "Pricing Plans", FontSize: 24, FontWeight: "bold"})

	cardWidth := max((inner-80)/3, 100)
	tiers := []string{"Basic", "Pro", "Enterprise"}
	prices := []string{"$19", "$49", "$99"}
	for i := range tiers {
		highlighted := i == 1
		x := 20 + float64(i)*(cardWidth+20)
		card := scene.Card{Fill: "#ffffff", Stroke: "#e0e0e0", CornerRadius: 8}
		button := scene.Button{Label: "Choose Plan", Fill: "#f0f0f0", Color: "#333333", CornerRadius: 4, FontSize: 16}
		if highlighted {
			card.Fill, card.Stroke = "#f9f9ff", "#4a85f0"
			button.Fill, button.Color = "#4a85f0", "#ffffff"
		}
		b.add(x, 80, cardWidth, 300, card)
		b.text(x+cardWidth/2-20, 100, scene.Text{Content: tiers[i], FontSize: 18, FontWeight: "bold"})
		b.text(x+cardWidth/2-20, 130, scene.Text{Content: prices[i], FontSize: 24, FontWeight: "bold"})
		b.text(x+cardWidth/2+20, 138, scene.Text{Content: "/month", FontSize: 14, Color: "#666666"})
		b.text(x+20, 170, scene.Text{Content: "• Feature 1\n• Feature 2\n• Feature 3", FontSize: 14})
		b.add(x+20, 320, cardWidth-40, 40, button)
	}
	return b.build()
}

func DashboardHeader(canvas scene.Size) scene.Element {
	w := canvas.Width
	return at(0, 0).
		rect(0, 0, w, 60, scene.Shape{Fill: "#2c3e50"}).
		text(20, 18, scene.Text{Content: "DashApp", FontSize: 20, FontWeight: "bold", Color: "#ffffff"}).
		rect(220, 15, 200, 30, scene.Shape{Fill: "#34495e", CornerRadius: 4}).
		text(235, 20, scene.Text{Content: "Search...", FontSize: 14, Color: "#95a5a6"}).
		text(w-80, 20, scene.Text{Content: "User", FontSize: 14, Color: "#ffffff"}).
		rect(w-40, 15, 30, 30, scene.Shape{Fill: "#95a5a6", CornerRadius: 15}).
		build()
}

// barHeights replaces random chart data with a fixed, plausible series.
var barHeights = []float64{110, 140, 95, 160, 180, 130, 150, 190, 120, 170, 145, 200}

func DashboardContent(canvas scene.Size) scene.Element {
	w := canvas.Width
	h := max(canvas.Height-60, 700)
	b := at(0, 60).
		rect(0, 0, 200, h, scene.Shape{Fill: "#2c3e50"})
	for i, item := range []string{"Dashboard", "Analytics", "Users", "Reports", "Settings"} {
		b.text(20, 20+float64(i)*40, scene.Text{Content: item, FontSize: 16, Color: "#ffffff"})
	}
	b.rect(200, 0, w-200, h, scene.Shape{Fill: "#ecf0f1"})

	cardWidth := max((w-280)/2, 100)
	const cardHeight = 150.0
	titles := []string{"Total Users", "Revenue", "Engagement", "Conversion"}
	values := []string{"12,345", "$45,678", "78.9%", "23.4%"}
	for row := 0; row < 2; row++ {
		for col := 0; col < 2; col++ {
			x := 220 + float64(col)*(cardWidth+20)
			y := 20 + float64(row)*(cardHeight+20)
			b.add(x, y, cardWidth, cardHeight, scene.Card{Fill: "#ffffff", CornerRadius: 4})
			b.text(x+20, y+20, scene.Text{Content: titles[row*2+col], FontSize: 16, FontWeight: "bold"})
			b.text(x+20, y+60, scene.Text{Content: values[row*2+col], FontSize: 28, FontWeight: "bold"})
		}
	}

	b.rect(220, 360, w-240, 300, scene.Shape{Fill: "#ffffff", CornerRadius: 4}).
		text(240, 380, scene.Text{Content: "Monthly Performance", FontSize: 18, FontWeight: "bold"}).
		rect(240, 420, w-280, 220, scene.Shape{Fill: "#f9f9f9", CornerRadius: 4})

	barWidth := max((w-320)/12, 4)
	for i, bh := range barHeights {
		b.rect(260+float64(i)*(barWidth+5), 440+200-bh, barWidth, bh, scene.Shape{Fill: "#3498db", CornerRadius: 2})
	}
	return b.build()
}
