package models

// SampleProject returns the built-in demo project used by the offline
// generator and the empty-state TUI.
func SampleProject() *Project {
	p := &Project{
		ID:          NewID(),
		Name:        "The Fair Share Slicer",
		Description: "Explore fractions by slicing shapes into fair shares and comparing the pieces.",
		Chapters: []Chapter{
			{
				ID:          NewID(),
				Name:        "Pages",
				Description: "Three hands-on experiments about equal parts.",
				IconName:    DefaultChapterIcon,
				Modules: []Module{
					{
						ID:          NewID(),
						Name:        "The Fair Share Slicer",
						Description: "Drag a knife across a pizza and see whether every slice is the same size.",
						Content:     SampleContent(),
					},
					{
						ID:          NewID(),
						Name:        "The Shape Splitter Challenge",
						Description: "Split squares, circles and triangles into halves, thirds and quarters.",
					},
					{
						ID:          NewID(),
						Name:        "The Fraction Size Sorter",
						Description: "Drop fraction tiles onto a scale to order them from smallest to largest.",
					},
				},
			},
		},
	}
	return p
}

// SampleContent is the page body used by the first sample module.
func SampleContent() *FileContent {
	return &FileContent{
		Title: "Slice it fairly",
		Source: `import SpriteKit
import PlaygroundSupport

let scene = SlicerScene(size: CGSize(width: 480, height: 640))
scene.slices = 4
PlaygroundPage.current.setLiveView(SKView(scene: scene))
`,
		Steps: []FileStep{
			{ID: NewID(), Title: "Predict", Body: "Guess whether four cuts always make four equal slices."},
			{ID: NewID(), Title: "Slice", Body: "Drag across the pizza to make your cuts."},
			{ID: NewID(), Title: "Compare", Body: "Tap two slices to weigh them against each other."},
		},
	}
}

// SampleWalkthrough mirrors the walkthrough shown for a freshly generated book.
func SampleWalkthrough() Walkthrough {
	return Walkthrough{Items: []WalkthroughItem{
		NewDescriptionItem("In this sample, you slice shapes into fair shares.", DescriptionCard{
			Body:        "Each page is a small experiment. Predict what will happen, try it, then check the result.",
			ButtonTitle: "Start Walkthrough",
		}),
		NewActionGroupItem("Fraction challenges",
			ActionCard{SystemName: "FirstChapter", Title: "Slice fairly", Description: "Cut a pizza into equal slices.", ActionTitle: "Start slicing"},
			ActionCard{SystemName: "SecondChapter", Title: "Split shapes", Description: "Split shapes into halves and thirds.", ActionTitle: "Split a shape"},
			ActionCard{SystemName: "ThirdChapter", Title: "Sort fractions", Description: "Order fraction tiles by size.", ActionTitle: "Sort the tiles"},
		),
	}}
}
