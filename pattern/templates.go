package pattern

import "text/template"

// DefaultTemplate is used when no pattern, or an unknown one, is selected.
const DefaultTemplate = `Given the following task, create a useful prompt: {{.Task}}`

// PersonaTemplate assigns the model a role to stay in.
const PersonaTemplate = `
You are a prompt engineering specialist. Your goal is to create a **persona-style prompt** for the given task.

The **Persona Prompting Pattern** involves assigning the LLM a **specific role, identity, or point of view** (e.g., "act as a historian," "respond like a 5-year-old," or "you are a medical expert").

Instructions:
    1. Clearly define the **persona or role** the LLM should assume.
    2. Define the **task** that persona is to complete.
    3. Ensure the role aligns with the expected style, domain expertise, or tone of the output.
    4. Keep the prompt clear and instruct the LLM to remain in-character.

Use the following task to generate a persona-style prompt:
{{.Task}}

Return only the final persona-style prompt.
`

// FlippedTemplate makes the model interview the user first.
const FlippedTemplate = `
To use the Flipped Interaction Pattern, your prompt should
incorporate these fundamental contextual cues:
    1. I would like you to ask me questions to achieve task {{.Task}}
    2. You should ask questions (optionally about 1, 2, 3,...) until you have enough information about the topic
    or you have enough information to do task {{.Task}}
    3. Ask these questions one by one
Let's start with the first question
`

// NShotTemplate teaches by example pairs.
const NShotTemplate = `
Generate a new prompt using the **n-shot prompting pattern**.

The goal is to teach the model a behavior through a few input-output examples (shots),
and then leave the final input for the model to complete.

Here's how to structure it:
    1. Start with a brief instruction to the LLM about the task.
    2. Include **3 example input-output pairs**.
    3. Add a **4th input only**, prompting the LLM to generate the corresponding output.

The task for which you should build the prompt is: {{.Task}}
Make the prompt clear, concise, and optimized for best results.
Respond with only the final prompt.
`

// DirectionalTemplate steers style, tone and structure explicitly.
const DirectionalTemplate = `
Your task is to generate a prompt that uses the **directional stimulus prompting pattern**.

This pattern gives **explicit instructions** on the type of
response desired from the LLM (e.g., style, tone, length, structure, or reasoning approach).

Here's how to structure the final prompt:
    1. **Define the task clearly.**
    2. **Provide explicit instructions** to guide the LLM's behavior, such as:
    - "Respond concisely using bullet points"
    - "Explain as if teaching a beginner"
    - "Use analogies from sports"
    - "Answer in formal tone with no subjective opinions"
    3. Ensure the prompt avoids ambiguity and focuses the LLM's attention on **how** to respond, not just **what** to respond to.

The task for which you should create this directional prompt is:
{{.Task}}

Respond with only the final directional prompt.
`

// TemplateTemplate produces a reusable fill-in-the-blanks prompt.
const TemplateTemplate = `
Your goal is to generate a **template-style prompt** for the given task.

The **Template Prompting Pattern** provides a reusable format or structure that can be filled in with specific inputs.

Follow these steps:
    1. Identify the key components needed for the task (e.g., goal, input, output format).
    2. Create a **prompt template** that includes placeholders like ` + "`input`, `goal`, or `style`" + `.
    3. Clearly describe how the placeholders will be used by the LLM when filled in.
    4. Optionally, include an example with filled-in values to demonstrate the prompt in action.

Use the following task to generate a prompt template:
{{.Task}}

Return only the final template-style prompt.
`

// MetaTemplate tells the model how to think, not only what to do.
const MetaTemplate = `
You are a professional prompt engineer. Your task is to create a **meta-language-style prompt** for the given task.

The **Meta Language Prompting Pattern** involves telling the LLM *how to think* or *how to approach solving* a task, not just *what* to do.

This uses instructions like:
    - "Think step-by-step before answering"
    - "Break the problem into sub-parts"
    - "Reflect on assumptions before responding"

Instructions:
    1. Define the task clearly.
    2. Add explicit meta-cognitive instructions about how the LLM should **approach the problem**.
    3. Guide the LLM's internal reasoning or mental process.
    4. The final prompt should encourage **structured thinking** and **self-correction**.

The task for which you should write this meta-style prompt is:
{{.Task}}

Respond with only the final meta-style prompt.
`

var (
	TmplDefault     = template.Must(template.New("default").Parse(DefaultTemplate))
	TmplPersona     = template.Must(template.New(Persona).Parse(PersonaTemplate))
	TmplFlipped     = template.Must(template.New(Flipped).Parse(FlippedTemplate))
	TmplNShot       = template.Must(template.New(NShot).Parse(NShotTemplate))
	TmplDirectional = template.Must(template.New(Directional).Parse(DirectionalTemplate))
	TmplTemplate    = template.Must(template.New(Template).Parse(TemplateTemplate))
	TmplMeta        = template.Must(template.New(Meta).Parse(MetaTemplate))
)
