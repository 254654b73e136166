package prompts

// ============================================================================
// Vision Prompts (logo description)
// ============================================================================

// LogoDescriptionSystemPrompt defines the role for logo description.
// The generated text is embedded for similarity search, so descriptions
// must be dense with searchable visual vocabulary.
const LogoDescriptionSystemPrompt = `You are a logo design analyst. Your descriptions are converted into embeddings and used for visual similarity search, so they must be rich in concrete design vocabulary.`

// LogoDescriptionUserPrompt asks the model for a search-oriented description
// of a rendered logo image.
const LogoDescriptionUserPrompt = `Analyze this logo image and provide a detailed description suitable for similarity search.

Include the following aspects in your description:
1. **Visual Style**: Is it modern, vintage, minimalist, bold, elegant, playful, etc.?
2. **Type**: Is it a wordmark, lettermark, pictorial mark, abstract mark, mascot, combination mark, or emblem?
3. **Shape**: What geometric shapes are prominent (circle, square, triangle, hexagon, etc.)?
4. **Colors**: Describe the color palette and any gradients
5. **Typography**: If text is present, describe the font style (serif, sans-serif, script, etc.)
6. **Mood/Feeling**: What emotion or brand personality does it convey?
7. **Industry Fit**: What industries or businesses might use this style of logo?

Provide a single cohesive paragraph (2-4 sentences) that captures the essence of this logo design. Focus on visual characteristics that would help find similar logos. Do not speculate about the brand name or what company it belongs to.`
