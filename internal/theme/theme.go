// Package theme holds the per-deity color palettes and the derivation from
// deity id to palette. Palettes are fixed product design values.
package theme

// Theme is the full palette driving a themed surface.
type Theme struct {
	ID                 string `json:"id"`
	Primary            string `json:"primary"`
	Secondary          string `json:"secondary"`
	Background         string `json:"background"`
	Text               string `json:"text"`
	HeaderBackground   string `json:"headerBackground"`
	ButtonBackground   string `json:"buttonBackground"`
	ButtonText         string `json:"buttonText"`
	AvatarBorderColor  string `json:"avatarBorderColor"`
	BackgroundColor    string `json:"backgroundColor"`
	BackgroundGradient string `json:"backgroundGradient,omitempty"`
	TabBackground      string `json:"tabBackground"`
	ActiveTintColor    string `json:"activeTintColor"`
	InactiveTintColor  string `json:"inactiveTintColor"`
	ChatBackground     string `json:"chatBackgroundColor"`
}

// Guanyin 观音主题
var Guanyin = Theme{
	ID:                 "guanyin",
	Primary:            "#B48850",
	Secondary:          "#E1BEE7",
	Background:         "#F3E5F5",
	Text:               "#4A148C",
	HeaderBackground:   "#CE93D8",
	ButtonBackground:   "#B48850",
	ButtonText:         "#FFFFFF",
	AvatarBorderColor:  "#B48850",
	BackgroundColor:    "#B48850",
	BackgroundGradient: "linear-gradient(0.29deg, #B48850 71.5%, rgba(180, 136, 80, 0) 99.09%)",
	TabBackground:      "#704C1E",
	ActiveTintColor:    "#FFFFFF",
	InactiveTintColor:  "#666666",
	ChatBackground:     "#F9ECDB",
}

// Yuelao 月老主题
var Yuelao = Theme{
	ID:                 "yuelao",
	Primary:            "#994B32",
	Secondary:          "#F8BBD0",
	Background:         "#FCE4EC",
	Text:               "#880E4F",
	HeaderBackground:   "#F48FB1",
	ButtonBackground:   "#994B32",
	ButtonText:         "#FFFFFF",
	AvatarBorderColor:  "#994B32",
	BackgroundColor:    "#994B32",
	BackgroundGradient: "linear-gradient(0.29deg, #994B32 71.5%, rgba(180, 136, 80, 0) 99.09%)",
	TabBackground:      "#70311E",
	ActiveTintColor:    "#FFFFFF",
	InactiveTintColor:  "#666666",
	ChatBackground:     "#F9E0DB",
}

// Caishen 财神主题
var Caishen = Theme{
	ID:                 "caishen",
	Primary:            "#9A4B32",
	Secondary:          "#FFE0B2",
	Background:         "#FFF3E0",
	Text:               "#E65100",
	HeaderBackground:   "#FFB74D",
	ButtonBackground:   "#9A4B32",
	ButtonText:         "#FFFFFF",
	AvatarBorderColor:  "#9A4B32",
	BackgroundColor:    "#184147",
	BackgroundGradient: "linear-gradient(0.29deg, #9A4B32 71.5%, rgba(180, 136, 80, 0) 99.09%)",
	TabBackground:      "#3C676D",
	ActiveTintColor:    "#FFFFFF",
	InactiveTintColor:  "#666666",
	ChatBackground:     "#E2ECEE",
}

// ForDeity derives the palette for a deity id. Unrecognized ids fall back to
// the 财神 palette, mirroring the app's historical default.
func ForDeity(id string) Theme {
	switch id {
	case "guanyin":
		return Guanyin
	case "yuelao":
		return Yuelao
	case "caishen":
		return Caishen
	default:
		return Caishen
	}
}
