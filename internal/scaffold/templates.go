package scaffold

import "github.com/typeramp/typeramp/internal/models"

// ruleTemplate is one discipline rule: a pattern, an action, and a message.
// Rules are declarative data copied verbatim; this tool never evaluates the
// patterns itself. The pre-commit and lint layers do that.
type ruleTemplate struct {
	name    string
	content string
}

// ruleTemplatesFor returns the discipline rules for a profile. The first
// three ship with every profile; cast-overuse only matters once strict
// checking makes casts the easy escape hatch.
func ruleTemplatesFor(profile models.Profile) []ruleTemplate {
	rules := []ruleTemplate{
		{name: "block-type-ignore", content: ruleBlockTypeIgnore},
		{name: "block-gratuitous-assert", content: ruleBlockGratuitousAssert},
		{name: "warn-any-type", content: ruleWarnAnyType},
	}
	if profile == models.ProfileStrict {
		rules = append(rules, ruleTemplate{name: "warn-cast-overuse", content: ruleWarnCastOveruse})
	}
	return rules
}

const ruleBlockTypeIgnore = `# block-type-ignore

**Pattern**: ` + "`# *type: *ignore`" + `
**Action**: block
**Message**: Do not silence the type checker with type: ignore. Fix the
underlying type error, or document it in .typeramp/findings.md if it is
genuinely unfixable.

Suppressions hide real errors from the error counts this migration is
tracking. Every ignore added today is an error someone rediscovers later.
`

const ruleBlockGratuitousAssert = `# block-gratuitous-assert

**Pattern**: ` + "`assert isinstance\\(|assert .* is not None`" + `
**Action**: block
**Message**: Do not add asserts solely to narrow types. Prefer explicit
None handling or a narrowing helper; asserts turn type errors into runtime
crashes.

An assert that exists only to satisfy the checker trades a compile-time
report for a production exception.
`

const ruleWarnAnyType = `# warn-any-type

**Pattern**: ` + "`: Any|-> Any`" + `
**Action**: warn
**Message**: Any disables checking for everything it touches. Use a precise
type, a TypeVar, or object if the value is truly opaque.
`

const ruleWarnCastOveruse = `# warn-cast-overuse

**Pattern**: ` + "`cast\\(`" + `
**Action**: warn
**Message**: cast() asserts without checking. Under strict mode prefer
narrowing via isinstance or a typed boundary; reserve cast() for interop
edges and leave a comment saying why it is safe.
`

// findingsTemplate seeds the append-only findings log. Humans write here
// and this tool never reads it back.
const findingsTemplate = `# Typing Findings Log

Document issues discovered during type migration that require investigation
or cannot be fixed with simple annotations.

## Format

` + "```markdown" + `
### [YYYY-MM-DD] Finding Title
**File**: path/to/file.py:123
**Category**: [design-issue | api-mismatch | missing-stubs | unfixable]
**Severity**: [low | medium | high]

Description of the issue and why it couldn't be fixed.
` + "```" + `

---

## Findings

(Add entries as issues are discovered)
`

// preCommitHook warns on outstanding errors without blocking the commit.
const preCommitHook = `#!/bin/bash

echo "Running type check..."
OUTPUT=$(npx pyright 2>&1)
EXIT_CODE=$?
ERROR_COUNT=$(echo "$OUTPUT" | grep -oE '[0-9]+ errors?' | head -1)

if [ $EXIT_CODE -ne 0 ]; then
    echo "Type check: $ERROR_COUNT remaining"
    echo "  (commit allowed, but please continue fixing)"
else
    echo "Type check: no errors"
fi
`
