package metadata

import "fmt"

// Categories are the Adobe Stock category numbers the model chooses from.
var Categories = []string{
	"Animals",
	"Buildings and Architecture",
	"Business",
	"Drinks",
	"The Environment",
	"States of Mind",
	"Food",
	"Graphic Resources",
	"Hobbies and Leisure",
	"Industry",
	"Landscapes",
	"Lifestyle",
	"People",
	"Plants and Flowers",
	"Culture and Religion",
	"Science",
	"Social Issues",
	"Sports",
	"Technology",
	"Transport",
	"Travel",
}

// BuildPrompt returns the vision prompt for the image named filename.
func BuildPrompt(filename string) string {
	categories := ""
	for i, c := range Categories {
		categories += fmt.Sprintf("            %d. %s\n", i+1, c)
	}

	return fmt.Sprintf(`Recommend title, keywords, Category and description of image (The information must come from the name of the image and the image)
Name of the image: %s
*NOTE:
**Adobe Stock categories by number:
%s
Answer with exactly four lines in this order and nothing else.

Example output:
    Title: Title example image (No more than 180 characters and There doesn't have to be a person's name in it.);
    keywords: keyword1, keyword2, ..., (Between 25 and 35 keywords);
    Category: 5
    description: description example image (Between 80 and 190 characters, No more than 200 characters);
`, filename, categories)
}
