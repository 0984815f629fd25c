package mcpserver

// CommandGrammar describes the natural-language command grammar that
// interpret_command understands. Exposed to LLM consumers so they can
// phrase commands the rule-based interpreter will parse.
const CommandGrammar = `# Dagaz Command Grammar

The interpreter is rule-based: commands are lowercased, punctuation is
stripped, and the result is matched against fixed patterns. Phrase commands
using the vocabulary below.

## Intents

| Intent     | Trigger words                                         |
|------------|-------------------------------------------------------|
| schedule   | schedule, book, plan, set up, create, add              |
| show       | show, view, display, list, what do i have, what's on   |
| cancel     | cancel, delete, remove, clear                          |
| reschedule | reschedule, move, postpone, push back                  |
| reminder   | remind me, reminder, alert, notify                     |

Anything else classifies as ` + "`unknown`" + ` and is recorded but not executed.
Trigger words are checked in the order listed above; the first matching
intent wins.

## Entities

- **time** – ` + "`2 pm`" + `, ` + "`14:30`" + `, ` + "`2:30 pm`" + `, ` + "`noon`" + `, ` + "`midnight`" + `
- **date** – ` + "`today`" + `, ` + "`tomorrow`" + `, ` + "`friday`" + `, ` + "`next friday`" + `,
  ` + "`next week`" + `, ` + "`next month`" + `, ` + "`january 15`" + `, ` + "`2024-01-15`" + `
- **duration** – ` + "`30 minutes`" + `, ` + "`2 hours`" + `, ` + "`half an hour`" + `, ` + "`an hour`" + `, ` + "`all day`" + `
- **person** – ` + "`with <name>`" + `
- **location** – ` + "`in the <name> room`" + ` (also office, cafe, building, hall,
  center, lobby), ` + "`room <number>`" + `, ` + "`suite <number>`" + `

When the same entity type appears more than once, the last occurrence wins.

## Execution

- ` + "`schedule`" + ` and ` + "`reminder`" + ` commands create an event. A missing time
  defaults to 9:00; a missing duration defaults to one hour; a missing date
  defaults to today.
- ` + "`cancel`" + ` and ` + "`reschedule`" + ` commands search stored events by the
  transcript's content words and act on the earliest-starting match;
  reschedule requires a date or time and preserves the event's duration.
- ` + "`show`" + ` returns a spoken-style response without mutating the calendar;
  use the explicit tools (list_events, today_events) for precise queries.

## Examples

- "Schedule a meeting with John tomorrow at 2 pm"
- "Book the conference room next friday at 10:30 am for 45 minutes"
- "Remind me to submit the report on monday at 9 am"
- "Show my calendar for next week"
`
