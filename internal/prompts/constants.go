package prompts

// NewCallerMarker is the literal marker rendered when the caller has no
// history on file. The assistant is told explicitly rather than given an
// empty block, because omission invites the model to invent a name.
const NewCallerMarker = "This is a new caller. No history on file."

// UnknownValue is rendered for any caller field we do not actually know.
const UnknownValue = "Unknown"

// PromptConversationRules constrains phone behavior: short answers, no
// invented facts, dates quoted verbatim from the context block.
const PromptConversationRules = `CONVERSATION RULES:
- You are answering a phone call. Keep responses short and natural to say out loud.
- Never invent caller names, phone numbers, prices or dates.
- When mentioning any date, use EXACTLY the date strings from the DATE REFERENCES block. Do not compute dates yourself.
- If you cannot help with something, say so and offer to schedule a callback.`

// PromptOpenHours describes what the assistant may do during open hours.
const PromptOpenHours = `The office is OPEN. You may transfer calls to a department, check equipment availability, and schedule callbacks.`

// PromptAfterHours describes the reduced after-hours capabilities. Transfers
// are off the table when nobody is there to pick up.
const PromptAfterHours = `The office is CLOSED. Do NOT offer to transfer the call; nobody is available to take it. You may check equipment availability and schedule a callback for when the office reopens.`
