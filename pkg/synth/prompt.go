package synth

// Prompt templates guiding the synthesis model. Pure configuration; the
// placeholders are filled with fmt.Sprintf.

const slideTypesDescription = `Available slide types:

1. "title" - Title slide (first slide)
   - title: Main presentation title
   - subtitle: Optional tagline
   - author: Presenter/company name
   - date: Presentation date

2. "agenda" - Agenda/outline slide
   - title: Usually "Agenda" or "Overview"
   - items: List of agenda items

3. "content" - General content slide
   - title: Slide title
   - body: Main content (can include bullet points)
   - image_suggestion: Optional image/diagram suggestion

4. "key_points" - Highlights important points
   - title: Slide title
   - points: List of points, each with 'title' and 'description'

5. "section_header" - Section divider
   - title: Section title
   - subtitle: Optional subtitle

6. "closing" - Final slide
   - title: Usually "Thank You" or "Next Steps"
   - message: Call to action or closing message

Every slide also accepts optional "speaker_notes".`

const documentAnalysisPrompt = `You are an expert business analyst and presentation consultant.

Analyze the following technical and economic proposal document and extract key information that will help create an effective presentation.

## Document to Analyze:
%s

## Your Task:
Analyze the document and provide a structured analysis including the main topic, key sections, technical highlights, economic highlights, target audience and suggested tone.

## Output Format:
Respond with a JSON object with this structure:
{
  "main_topic": "string",
  "key_sections": ["string"],
  "technical_highlights": ["string"],
  "economic_highlights": ["string"],
  "target_audience": "string",
  "suggested_tone": "string"
}`

const planGenerationPrompt = `You are an expert presentation designer specializing in technical and business proposals.

Based on the document analysis below, create a comprehensive presentation plan.

## Document Analysis:
%s

## Original Document:
%s

## %s

## Your Task:
Create a presentation plan that starts with a compelling title slide, includes an agenda, covers all key technical points, highlights economic benefits, and ends with a clear call to action.

## Guidelines:
- Target 10-15 slides for a 30-minute presentation
- Use appropriate slide types for different content
- Include speaker notes for each slide
- Make titles concise and impactful

## Output Format:
Respond with a JSON object with this structure:
{
  "title": "Presentation title",
  "description": "Brief description",
  "target_audience": "Intended audience",
  "estimated_duration_minutes": 30,
  "slides": [
    {"slide_type": "title", "title": "Main Title", "subtitle": "Subtitle", "author": "Author", "date": "Date", "speaker_notes": "Notes"},
    {"slide_type": "agenda", "title": "Agenda", "items": ["Item 1", "Item 2"], "speaker_notes": "Notes"}
  ]
}`

const planRevisionPrompt = `You are an expert presentation designer helping to refine a presentation plan based on user feedback.

## Current Plan:
%s

## User Feedback:
%s

## Original Document:
%s

## %s

## Your Task:
Revise the presentation plan to address the user's feedback. Keep everything that was not mentioned in the feedback unchanged. Return the complete revised plan.

## Output Format:
Respond with a JSON object using the same structure as the current plan.`
