package prompt

// DefaultStack is the language named in the role definitions when no other
// stack is configured.
const DefaultStack = "Rust"

const architectureHeader = `# PROMPT FOR LLM: PROJECT ARCHITECTURE & CODE GENERATION

## 1. ROLE DEFINITION
You are an expert Senior Software Engineer and System Architect specializing in **%s**.
Your goal is to take the project description below and produce a complete, production-ready implementation plan and codebase.

## 2. PROJECT DESCRIPTION
**User Requirement:**
"%s"
`

const architectureRequirements = `
## 5. PREDETERMINED ENGINEERING REQUIREMENTS
Please adhere to the following strict design principles:

1.  **Modularity:** Break code into logical files and functions.
2.  **Error Handling:** Rigorous error handling (no silent failures).
3.  **Type Safety:** Leverage the type system.
4.  **Comments:** Self-documenting code preferred.
5.  **Configuration:** No magic numbers.
6.  **Entry Point Structure:** Refactor the code so that main.rs is a minimal entry point. Move the application logic into a module folder named app. Use src/app.rs as the module root.
7.  **Refactoring Strategy:** Aggressive 'Extract Method'.
8.  **Testing:** Include a testing strategy.

## 6. REQUIRED OUTPUT FORMAT
### Phase 1: Architecture Design
* **File Structure**
* **Core Data Models**
* **Dependencies**

### Phase 2: Implementation
* **IMPORTANT:** Create a separate code block for EVERY file.

### Phase 3: Usage Instructions
`

const reviewHeader = `# PROMPT FOR LLM: SENIOR CODE REVIEW

## 1. ROLE DEFINITION
You are a Principal Engineer specializing in **%s**.
Your goal is to review the provided code/requirements and identify security flaws, performance bottlenecks, and anti-patterns.

## 2. CONTEXT
**Focus Area:**
"%s"
`

const reviewGuidelines = `
## 3. REVIEW GUIDELINES
1.  **Security:** Check for injection vulnerabilities and unsafe data handling.
2.  **Performance:** Identify O(n^2) operations or unnecessary allocations.
3.  **Readability:** Enforce idiomatic %s patterns.

## 4. REQUIRED OUTPUT
1.  **Executive Summary:** High-level health check.
2.  **Critical Issues:** Must-fix items.
3.  **Refactoring Suggestions:** Concrete code blocks showing the "Better" way.
`

const refactorHeader = `# PROMPT FOR LLM: MODERNIZATION & REFACTORING

## 1. ROLE DEFINITION
You are a specialist in technical debt reduction and **%s** modernization.

## 2. GOAL
Refactor the codebase described below to meet modern standards (Clean Code, SOLID principles).
**Specific Goal:** "%s"
`

const refactorRules = `
## 3. REFACTORING RULES
1.  **Preserve Behavior:** Functionality must remain identical unless specified.
2.  **Split Giant Functions:** No function > 30 lines.
3.  **Dependency Injection:** Remove hardcoded dependencies.

## 4. REQUIRED OUTPUT
1.  **Before/After Analysis:** Briefly explain why the change is needed.
2.  **Refactored Code:** Complete, compile-ready files.
`

const genericHeader = `# PROMPT FOR LLM

%s
`

const readmeRole = `# PROMPT FOR LLM: README GENERATION

## 1. ROLE DEFINITION
You are an expert Technical Writer and Developer Advocate.
Your tone should be **%s**.
Your goal is to analyze the provided source code and generate a comprehensive, production-ready README.md file.`

const readmeTask = `## 2. USER REQUIREMENT
**Goal:** %s
`

const readmeContextHeader = `## 3. SOURCE CODE CONTEXT
The following is the actual file structure and content of the project. Use this to derive installation steps, dependencies, and features.

`

// readmeRequirements contains backticks, so it is assembled from quoted lines.
var readmeRequirements = "## 4. OUTPUT REQUIREMENTS\n" +
	"Please generate a single `README.md` file code block. Ensure the following sections are included (if applicable based on the code):\n" +
	"\n" +
	"1.  **Title & Badges:** Project name and relevant status badges (CI, License, version).\n" +
	"2.  **Description:** A clear 'Elevator Pitch' based on the code's functionality.\n" +
	"3.  **Features:** Bullet points extracted from the actual implemented logic.\n" +
	"4.  **Tech Stack:** derived from `Cargo.toml`, `package.json`, etc.\n" +
	"5.  **Prerequisites:** What needs to be installed (Rust, Node, etc).\n" +
	"6.  **Installation:** Step-by-step commands.\n" +
	"7.  **Usage:** Examples of how to run the tool (CLI flags, API calls).\n" +
	"8.  **Configuration:** specific environment variables or config options found in the code.\n" +
	"\n" +
	"**Important Content Rule:** Do not include placeholder text like \"Insert description here\" - **infer it from the code provided.**\n" +
	"### **File Generation & Output Formatting Rule**\n" +
	"When the user's request requires the generation of a file, a complete code snippet, or a document intended to be copied (like a system prompt or a configuration file), you must follow a specific output format.\n" +
	"**The default output format is a self-contained HTML document that presents the raw source code within a `<textarea>` element.**\n" +
	"This HTML document must include:\n" +
	"1. **A Clear Header:** A title and brief description of the content.\n" +
	"2. **A `<textarea>` Element:** This element must contain the complete, raw, un-rendered source code of the requested file. It should be set to `readonly`.\n" +
	"3. **A \"Copy to Clipboard\" Button:** A prominent button that, when clicked, copies the entire content of the `<textarea>` to the user's clipboard.\n" +
	"4. **User Feedback:** The copy functionality must provide clear visual feedback, such as changing the button text to \"Copied!\" for a few seconds. The JavaScript should be robust and compatible with the canvas environment.\n" +
	"5. **Professional Styling:** The page must be styled using Tailwind CSS for a clean, modern, and usable interface.\n" +
	"This rule should only be overridden if the user explicitly asks for a different format, such as \"show me the rendered markdown\" or \"just give me the raw code block.\"\n" +
	"\n" +
	"---\n" +
	"*Begin by analyzing the code structure above, then generate the HTML-wrapped README.*"
