package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"

	// GenericErrorMessage is the only failure text ever sent to a client;
	// fault detail stays in the server logs.
	GenericErrorMessage = "Sorry, something went wrong. Try again."

	// CitationIntroMessage precedes the block of source links after an answer.
	CitationIntroMessage = "<br><br>Related documentation: "
)

// CondenseQuestionPromptV1 rewrites a follow-up question into a standalone
// question using the conversation so far. Filled with (transcript, question).
const CondenseQuestionPromptV1 = `Given the following conversation and a follow up question, rephrase the follow up question to be a standalone question.

Chat history:
%s
Follow up input: %s
Standalone question:`

// AnswerPromptV1 grounds the answer in retrieved context. Filled with
// (context block, question).
const AnswerPromptV1 = `Use the following pieces of context to answer the question at the end. If you don't know the answer, just say that you don't know, don't try to make up an answer.

%s

Question: %s
Helpful answer:`
