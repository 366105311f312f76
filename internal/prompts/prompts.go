package prompts

import (
	"fmt"
	"strings"

	"github.com/lehigh-university-libraries/photosphere/internal/models"
)

// QueryPrompt builds the highlight/caption prompt from the current catalog and the user's query.
func QueryPrompt(images []models.ImageRecord, query string) string {
	var catalog strings.Builder
	for _, img := range images {
		fmt.Fprintf(&catalog, "%s: %s\n", img.ID, img.Description.Display())
	}

	return fmt.Sprintf(`You are curating a collection of photographs. Each line below is one photograph, given as its filename followed by a description of what it shows.

PHOTOGRAPHS:
%s
The viewer asked: %q

INSTRUCTIONS:
1. Select the photographs that best answer the viewer's request. Use only filenames from the list above.
2. Write a short commentary (one or two sentences) addressed to the viewer about what the selection shows.
3. If nothing matches, return an empty list and say so in the commentary.

OUTPUT FORMAT:
Respond with ONLY a JSON object in the following format:

{
  "filenames": ["filename1", "filename2"],
  "commentary": "..."
}`, catalog.String(), query)
}

// DescriptionPrompt is the instruction sent alongside an uploaded image.
func DescriptionPrompt() string {
	return `Describe this photograph in one or two plain sentences. Mention the main subject, the setting, notable colors and the mood. Respond with the description only, without any preamble or formatting.`
}
