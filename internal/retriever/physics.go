package retriever

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/astrosim/simagent/internal/domain"
	"github.com/astrosim/simagent/internal/extract"
	"github.com/astrosim/simagent/internal/oai"
)

// assistantAPI is the slice of the OpenAI client the retriever needs.
// *oai.Client satisfies it; tests script it.
type assistantAPI interface {
	PostThread(ctx context.Context, vectorStoreIDs ...string) (string, error)
	DeleteThread(ctx context.Context, threadID string) error
	RunAssistant(ctx context.Context, cfg oai.AwaitConfig, threadID, assistantID, userPrompt string) (string, error)
	PostVectorStore(ctx context.Context, name string) (string, error)
	DeleteVectorStore(ctx context.Context, storeID string) error
	AddFileAndAwait(ctx context.Context, storeID, filename string, content []byte) error
	GetAssistant(ctx context.Context, assistantID string) (*oai.Assistant, error)
	PostAssistant(ctx context.Context, proto oai.AssistantProto) (*oai.Assistant, error)
}

// PhysicsConfig wires a PhysicsPaperRetriever. Every field is explicit; the
// retriever never consults the environment.
type PhysicsConfig struct {
	// PhysicsAssistantID and FormatterID name existing assistants to reuse.
	// Missing or stale IDs cause fresh assistants to be created.
	PhysicsAssistantID string
	FormatterID        string

	// DocsPath points at the MP-Gadget documentation: a single file or a
	// directory whose .pdf/.json entries are uploaded to the persistent
	// reference index.
	DocsPath string

	// PaperPath optionally names the original paper document; when present
	// it is uploaded verbatim instead of the extracted text.
	PaperPath string

	PhysicsPromptPath   string
	FormatterPromptPath string

	Model       string
	Temperature float64
	TopP        float64

	// MaxIterations bounds the refinement loop; the formatter gets at most
	// MaxIterations+1 chances to emit a complete parameter set.
	MaxIterations int

	// ValidateOnComplete re-checks the required-field schema before trusting
	// the formatter's self-reported "complete". A mis-reported complete is
	// then downgraded to incomplete with the gap list filled in.
	ValidateOnComplete bool

	Poll oai.AwaitConfig
}

func (c PhysicsConfig) withDefaults() PhysicsConfig {
	if c.Model == "" {
		c.Model = "gpt-4o"
	}
	if c.Temperature == 0 {
		c.Temperature = 0.01
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = 2
	}
	return c
}

// PhysicsPaperRetriever extracts parameters with two cooperating assistants:
// a physics expert grounded in the uploaded paper and a formatter grounded
// in a persistent MP-Gadget documentation index. The formatter decides when
// extraction is complete; an optional schema gate double-checks it.
type PhysicsPaperRetriever struct {
	api assistantAPI
	cfg PhysicsConfig

	physicsID   string
	formatterID string

	// docsStoreID is the persistent reference index. Released by Close, not
	// per retrieval.
	docsStoreID string
}

// NewPhysicsPaperRetriever builds the persistent side of the retriever: the
// documentation index and the two assistants. The caller owns the returned
// retriever and must release it with Close.
func NewPhysicsPaperRetriever(ctx context.Context, api assistantAPI, cfg PhysicsConfig) (*PhysicsPaperRetriever, error) {
	cfg = cfg.withDefaults()
	r := &PhysicsPaperRetriever{api: api, cfg: cfg}

	docsStoreID, err := r.createDocsStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("retriever: create documentation index: %w", err)
	}
	r.docsStoreID = docsStoreID

	r.physicsID, err = r.ensureAssistant(ctx, cfg.PhysicsAssistantID, oai.AssistantProto{
		Name:         "Cosmology Paper Reader with RAG",
		Instructions: loadPrompt(cfg.PhysicsPromptPath, defaultPhysicsInstructions),
		Model:        cfg.Model,
		Tools:        []oai.Tool{{Type: "file_search"}},
		Temperature:  cfg.Temperature,
		TopP:         cfg.TopP,
	})
	if err != nil {
		r.releaseDocsStore(ctx)
		return nil, fmt.Errorf("retriever: physics assistant: %w", err)
	}

	r.formatterID, err = r.ensureAssistant(ctx, cfg.FormatterID, oai.AssistantProto{
		Name:         "MP-Gadget Formatter with Documentation",
		Instructions: loadPrompt(cfg.FormatterPromptPath, defaultFormatterInstructions),
		Model:        cfg.Model,
		Tools:        []oai.Tool{{Type: "file_search"}},
		ToolResources: &oai.ToolResources{
			FileSearch: &oai.FileSearchResources{VectorStoreIDs: []string{docsStoreID}},
		},
		Temperature: cfg.Temperature,
		TopP:        cfg.TopP,
	})
	if err != nil {
		r.releaseDocsStore(ctx)
		return nil, fmt.Errorf("retriever: formatter assistant: %w", err)
	}

	return r, nil
}

func (r *PhysicsPaperRetriever) Name() string { return "PhysicsPaperRetriever" }

// Close releases the persistent documentation index. Best effort: a failed
// delete is logged, never fatal.
func (r *PhysicsPaperRetriever) Close(ctx context.Context) {
	r.releaseDocsStore(ctx)
}

// RetrieveParameters runs the dual-agent extraction loop over one paper.
func (r *PhysicsPaperRetriever) RetrieveParameters(ctx context.Context, paperContent, customPrompt string) (domain.ParameterSet, string, error) {
	var log domain.ReasoningLog

	log.Section("Creating Paper Vector Store")
	paperStoreID, err := r.createPaperStore(ctx, paperContent, &log)
	if err != nil {
		return domain.ParameterSet{}, log.String(), fmt.Errorf("retriever: paper index: %w", err)
	}
	// The paper index is session-scoped: released on every exit path,
	// success or failure, and never fatal.
	defer func() {
		if err := r.api.DeleteVectorStore(ctx, paperStoreID); err != nil {
			slog.Warn("failed to delete paper vector store", "store", paperStoreID, "error", err)
			log.Appendf("Warning: failed to delete paper vector store %s: %v", paperStoreID, err)
		}
	}()

	log.Section("Physics Expert Analysis with File Search")
	if customPrompt != "" {
		log.Appendf("Custom instruction: %s", customPrompt)
	}
	physicsResponse, err := r.askPhysics(ctx, paperStoreID, physicsQuery(customPrompt))
	if err != nil {
		return domain.ParameterSet{}, log.String(), fmt.Errorf("retriever: physics expert: %w", err)
	}
	log.Append(physicsResponse)

	log.Section("MP-Gadget Formatter Processing with Documentation")
	formatterResponse, err := r.askFormatter(ctx, formatQuery(physicsResponse))
	if err != nil {
		return domain.ParameterSet{}, log.String(), fmt.Errorf("retriever: formatter: %w", err)
	}
	log.Append(formatterResponse)

	// Refinement loop. Each pass re-evaluates the latest formatter output;
	// the formatter emits at most MaxIterations+1 candidates in total.
	rounds := 1
	for {
		reply, parseErr := parseFormatterReply(formatterResponse)
		if parseErr == nil {
			if done, missing := r.acceptable(reply, &log); done {
				return reply.ParameterSet(), log.String(), nil
			} else if len(missing) > 0 {
				reply.MissingParameters = missing
			}
		} else {
			log.Appendf("Error in round %d: %v", rounds, parseErr)
		}

		if rounds > r.cfg.MaxIterations {
			break
		}

		log.Section(fmt.Sprintf("Iteration %d: Resolving Missing Parameters", rounds))
		missing := []string{"all required parameters"}
		if parseErr == nil && len(reply.MissingParameters) > 0 {
			missing = reply.MissingParameters
		}
		log.Appendf("Missing: %s", strings.Join(missing, ", "))

		next, refineErr := r.refine(ctx, paperStoreID, missing, physicsResponse, formatterResponse, &log)
		if refineErr != nil {
			// The round stays unresolved; keep the previous response and
			// let the loop run down its budget.
			log.Appendf("Error in round %d: %v", rounds, refineErr)
		} else {
			formatterResponse = next
		}
		rounds++
	}

	// Budget exhausted: return the best last-known state.
	set := domain.NewParameterSet()
	if reply, parseErr := parseFormatterReply(formatterResponse); parseErr == nil {
		set = reply.ParameterSet()
		if set.Comment == "" {
			set.Comment = fmt.Sprintf("Failed to extract all required parameters after %d refinement rounds", r.cfg.MaxIterations)
		}
	} else {
		set.Comment = "Extraction failed - could not parse formatter response"
	}
	return set, log.String(), nil
}

// acceptable applies the completeness check: the formatter must self-report
// complete, and with ValidateOnComplete set the required-field schema must
// hold as well.
func (r *PhysicsPaperRetriever) acceptable(reply domain.FormatterReply, log *domain.ReasoningLog) (bool, []string) {
	if reply.Status != domain.StatusComplete {
		return false, nil
	}
	if !r.cfg.ValidateOnComplete {
		return true, nil
	}
	missing := ValidateParameters(reply.ParameterSet())
	if len(missing) == 0 {
		return true, nil
	}
	log.Appendf("Formatter reported complete but required fields are missing: %s", strings.Join(missing, ", "))
	return false, missing
}

// refine runs one gap-filling pass: documentation search for the missing
// fields, guided re-extraction from the paper, then a final re-format.
func (r *PhysicsPaperRetriever) refine(ctx context.Context, paperStoreID string, missing []string, physicsResponse, formatterResponse string, log *domain.ReasoningLog) (string, error) {
	docGuidance, err := r.askFormatter(ctx, docSearchQuery(missing))
	if err != nil {
		return "", fmt.Errorf("documentation search: %w", err)
	}
	log.Appendf("Documentation Search:\n%s", docGuidance)

	clarification, err := r.askPhysics(ctx, paperStoreID, clarificationQuery(missing, docGuidance, physicsResponse))
	if err != nil {
		return "", fmt.Errorf("physics clarification: %w", err)
	}
	log.Appendf("Physics Expert Clarification:\n%s", clarification)

	next, err := r.askFormatter(ctx, reformatQuery(formatterResponse, clarification))
	if err != nil {
		return "", fmt.Errorf("reformat: %w", err)
	}
	log.Appendf("Updated Formatter Response:\n%s", next)
	return next, nil
}

// askPhysics runs the physics expert on a fresh thread with the paper index
// attached. Threads are throwaway; deletion is best effort.
func (r *PhysicsPaperRetriever) askPhysics(ctx context.Context, paperStoreID, prompt string) (string, error) {
	return r.ask(ctx, r.physicsID, prompt, paperStoreID)
}

// askFormatter runs the formatter, whose documentation index travels on the
// assistant itself.
func (r *PhysicsPaperRetriever) askFormatter(ctx context.Context, prompt string) (string, error) {
	return r.ask(ctx, r.formatterID, prompt)
}

func (r *PhysicsPaperRetriever) ask(ctx context.Context, assistantID, prompt string, vectorStoreIDs ...string) (string, error) {
	threadID, err := r.api.PostThread(ctx, vectorStoreIDs...)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := r.api.DeleteThread(ctx, threadID); err != nil {
			slog.Warn("failed to delete thread", "thread", threadID, "error", err)
		}
	}()

	return r.api.RunAssistant(ctx, r.cfg.Poll, threadID, assistantID, prompt)
}

func (r *PhysicsPaperRetriever) createPaperStore(ctx context.Context, paperContent string, log *domain.ReasoningLog) (string, error) {
	storeID, err := r.api.PostVectorStore(ctx, "Physics Paper")
	if err != nil {
		return "", err
	}

	filename := "paper.txt"
	content := []byte(paperContent)
	if r.cfg.PaperPath != "" {
		raw, readErr := os.ReadFile(r.cfg.PaperPath)
		if readErr == nil {
			filename = filepath.Base(r.cfg.PaperPath)
			content = raw
			log.Appendf("Created vector store from file: %s", r.cfg.PaperPath)
		} else {
			slog.Warn("could not read paper file, indexing text content", "path", r.cfg.PaperPath, "error", readErr)
			log.Append("Created vector store from text content")
		}
	} else {
		log.Append("Created vector store from text content")
	}

	if err := r.api.AddFileAndAwait(ctx, storeID, filename, content); err != nil {
		if delErr := r.api.DeleteVectorStore(ctx, storeID); delErr != nil {
			slog.Warn("failed to delete paper vector store", "store", storeID, "error", delErr)
		}
		return "", err
	}
	return storeID, nil
}

func (r *PhysicsPaperRetriever) createDocsStore(ctx context.Context) (string, error) {
	storeID, err := r.api.PostVectorStore(ctx, "MP-Gadget Documentation")
	if err != nil {
		return "", err
	}

	for _, path := range docFiles(r.cfg.DocsPath) {
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			slog.Warn("skipping unreadable documentation file", "path", path, "error", readErr)
			continue
		}
		if err := r.api.AddFileAndAwait(ctx, storeID, filepath.Base(path), content); err != nil {
			if delErr := r.api.DeleteVectorStore(ctx, storeID); delErr != nil {
				slog.Warn("failed to delete documentation vector store", "store", storeID, "error", delErr)
			}
			return "", err
		}
	}
	return storeID, nil
}

func (r *PhysicsPaperRetriever) releaseDocsStore(ctx context.Context) {
	if r.docsStoreID == "" {
		return
	}
	if err := r.api.DeleteVectorStore(ctx, r.docsStoreID); err != nil {
		slog.Warn("failed to delete documentation vector store", "store", r.docsStoreID, "error", err)
		return
	}
	r.docsStoreID = ""
}

func (r *PhysicsPaperRetriever) ensureAssistant(ctx context.Context, existingID string, proto oai.AssistantProto) (string, error) {
	if existingID != "" {
		if existing, err := r.api.GetAssistant(ctx, existingID); err == nil {
			slog.Info("using existing assistant", "id", existing.ID, "name", existing.Name)
			return existing.ID, nil
		}
		slog.Info("assistant not found, creating a new one", "id", existingID)
	}
	created, err := r.api.PostAssistant(ctx, proto)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

// docFiles expands DocsPath into the list of files to index: the path itself
// if it is a file, otherwise the .pdf and .json entries of the directory.
func docFiles(docsPath string) []string {
	if docsPath == "" {
		return nil
	}
	info, err := os.Stat(docsPath)
	if err != nil {
		slog.Warn("documentation path unavailable", "path", docsPath, "error", err)
		return nil
	}
	if !info.IsDir() {
		return []string{docsPath}
	}

	entries, err := os.ReadDir(docsPath)
	if err != nil {
		slog.Warn("could not list documentation directory", "path", docsPath, "error", err)
		return nil
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".pdf", ".json":
			paths = append(paths, filepath.Join(docsPath, entry.Name()))
		}
	}
	return paths
}

// parseFormatterReply recovers the formatter's JSON contract from free text
// via the parse chain.
func parseFormatterReply(response string) (domain.FormatterReply, error) {
	var reply domain.FormatterReply
	if err := extract.JSONObject(response, &reply); err != nil {
		return domain.FormatterReply{}, err
	}
	return reply, nil
}
