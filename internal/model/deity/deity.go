package deity

// Tag is one descriptive label shown on a deity card, with its chip color.
type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Deity captures a selectable fortune-telling persona exposed to the client.
type Deity struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Tags          []Tag  `json:"tags"`
	PortraitAsset string `json:"portraitAsset"`
}

// PrimaryTag returns the first tag, which doubles as the chat task label.
func (d Deity) PrimaryTag() Tag {
	if len(d.Tags) == 0 {
		return Tag{}
	}
	return d.Tags[0]
}

// Seed provides the fixed deity catalog required by the product.
func Seed() []Deity {
	return []Deity{
		{
			ID:          "guanyin",
			Name:        "观音",
			Description: "“南无观世音菩萨，慈悲为怀，愿为汝解忧。来此求平安、消灾解难，贫道定为汝祈安康、消病痛。愿汝心安、生活如意，吉祥如意”",
			Tags: []Tag{
				{ID: "mercy", Name: "慈悲", Color: "#E6B3B3"},
				{ID: "wisdom", Name: "智慧", Color: "#B3E6CC"},
				{ID: "peace", Name: "安宁", Color: "#B3CCE6"},
				{ID: "blessing", Name: "祈福", Color: "#E6CCB3"},
			},
			PortraitAsset: "guanyin.jpg",
		},
		{
			ID:          "yuelao",
			Name:        "月老",
			Description: "\"欢迎来访，贫道月老在此，手中红线已备，愿为你牵缘。无论缘深缘浅，皆可为你指引所需，愿你姻缘早成，百年好合。\"",
			Tags: []Tag{
				{ID: "love", Name: "姻缘", Color: "#FFB3B3"},
				{ID: "marriage", Name: "婚姻", Color: "#FFD9B3"},
				{ID: "relationship", Name: "情感", Color: "#FFB3D9"},
				{ID: "destiny", Name: "缘分", Color: "#FFB3FF"},
			},
			PortraitAsset: "yuelao.jpg",
		},
		{
			ID:          "caishen",
			Name:        "财神",
			Description: "\"吾乃财神，掌管天下财运。汝若欲求金银财宝，事业如意，贫道当为尔指路，保汝富贵安康，财源滚滚来。\"",
			Tags: []Tag{
				{ID: "wealth", Name: "财运", Color: "#FFD700"},
				{ID: "prosperity", Name: "富贵", Color: "#FFA500"},
				{ID: "business", Name: "事业", Color: "#FF8C00"},
				{ID: "fortune", Name: "福禄", Color: "#DAA520"},
			},
			PortraitAsset: "caishen.jpg",
		},
	}
}
