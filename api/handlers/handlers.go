// Package handlers implements the REST surface: launching runs and reading
// back their artifacts.
package handlers

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mimetic-labs/resonance/ai"
	"github.com/mimetic-labs/resonance/communication"
	"github.com/mimetic-labs/resonance/config"
	"github.com/mimetic-labs/resonance/core"
	"github.com/mimetic-labs/resonance/decision"
	"github.com/mimetic-labs/resonance/evolution"
	"github.com/mimetic-labs/resonance/graph"
	"github.com/mimetic-labs/resonance/insights"
	"github.com/mimetic-labs/resonance/population"
	"github.com/mimetic-labs/resonance/simulation"
	"github.com/mimetic-labs/resonance/storage"
)

var (
	cfg   config.Config
	store storage.Storage

	runsMu sync.RWMutex
	runs   = make(map[string]*runState)
)

type runState struct {
	Status      string                 `json:"status"` // running | done | failed
	Error       string                 `json:"error,omitempty"`
	Generations []evolution.Generation `json:"generations,omitempty"`
}

// Init wires the handlers' shared dependencies. Call once at startup.
func Init(c config.Config, s storage.Storage) {
	cfg = c
	store = s
}

// StartRunRequest is the POST /api/runs body.
type StartRunRequest struct {
	Content          string  `json:"content" binding:"required"`
	ImageDescription string  `json:"image_description"`
	Goal             string  `json:"goal" binding:"required"`
	TargetAudience   string  `json:"target_audience" binding:"required"`
	AgentCount       int     `json:"num_agents"`
	Ticks            int     `json:"num_ticks"`
	MaxGenerations   int     `json:"max_generations"`
	FitnessThreshold float64 `json:"fitness_threshold"`
	UseAI            bool    `json:"use_ai"`
	RandomSeed       int64   `json:"random_seed"`
}

// StartRun validates the campaign brief, kicks the pipeline off in the
// background, and returns the run ID immediately.
func StartRun(c *gin.Context) {
	var req StartRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid run request: " + err.Error()})
		return
	}

	goal, err := core.ParseGoal(req.Goal)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.AgentCount <= 0 {
		req.AgentCount = 40
	}
	if req.AgentCount > 200 {
		req.AgentCount = 200
	}
	if req.Ticks <= 0 {
		req.Ticks = simulation.DefaultOptions().Ticks
	}
	if req.MaxGenerations <= 0 {
		req.MaxGenerations = evolution.DefaultOptions().MaxGenerations
	}
	if req.FitnessThreshold <= 0 {
		req.FitnessThreshold = evolution.DefaultOptions().FitnessThreshold
	}

	seed := core.CampaignSeed{
		Content:          req.Content,
		ImageDescription: req.ImageDescription,
		Goal:             goal,
		TargetAudience:   req.TargetAudience,
	}

	runID := uuid.New().String()[:8]
	runsMu.Lock()
	runs[runID] = &runState{Status: "running"}
	runsMu.Unlock()

	go runPipeline(runID, seed, req)

	c.JSON(http.StatusAccepted, gin.H{"run_id": runID, "status": "running"})
}

// runPipeline executes the whole run: population, graph, simulation,
// evolution, persistence. Failures are recorded on the run state and
// published, never panicked.
func runPipeline(runID string, seed core.CampaignSeed, req StartRunRequest) {
	subject := core.RunSubject(runID)
	broker := core.NatsBrokerInstance

	var events core.EventPublisher = core.NoopPublisher{}
	if broker != nil {
		events = broker
		bridge, err := communication.BridgeRun(broker, runID)
		if err != nil {
			log.Printf("run %s: websocket bridge unavailable: %v", runID, err)
		} else {
			defer bridge.Stop()
		}
	}

	fail := func(err error) {
		log.Printf("run %s failed: %v", runID, err)
		runsMu.Lock()
		runs[runID].Status = "failed"
		runs[runID].Error = err.Error()
		runsMu.Unlock()
		core.PublishEvent(events, subject, core.EventRunError, gin.H{"error": err.Error()})
	}

	rngSeed := req.RandomSeed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(rngSeed))

	llm := ai.NewClient(cfg.OpenAIKey, ai.DefaultLLMConfig())
	useAI := req.UseAI && llm.Enabled()

	core.PublishEvent(events, subject, core.EventPhase, gin.H{"phase": "population"})
	var provider population.Provider
	if useAI {
		provider = population.NewAIProvider(llm, rng)
	} else {
		provider = population.NewLocalProvider(rng)
	}
	agents, err := provider.Generate(context.Background(), seed, req.AgentCount)
	if err != nil {
		fail(err)
		return
	}
	for _, a := range agents {
		core.PublishEvent(events, subject, core.EventAgentCreated, a)
	}

	core.PublishEvent(events, subject, core.EventPhase, gin.H{"phase": "graph"})
	g := graph.New(agents, graph.DefaultConfig())
	g.Build(rng)
	core.PublishEvent(events, subject, core.EventGraphBuilt, gin.H{
		"agents": len(agents),
		"edges":  g.EdgeCount(),
	})

	if store != nil {
		if err := store.SaveAgents(runID, agents); err != nil {
			log.Printf("run %s: persisting agents failed: %v", runID, err)
		}
		if err := store.SaveGraph(runID, g.Snapshot()); err != nil {
			log.Printf("run %s: persisting graph failed: %v", runID, err)
		}
	}

	var policy decision.Policy
	if useAI {
		policy = decision.NewGenerativePolicy(llm)
	} else {
		policy = decision.NewRulePolicy(rng)
	}

	simOpts := simulation.DefaultOptions()
	simOpts.Ticks = req.Ticks
	sim := simulation.New(g, policy, rng, events, subject, simOpts)

	loopOpts := evolution.Options{
		MaxGenerations:   req.MaxGenerations,
		FitnessThreshold: req.FitnessThreshold,
	}
	var analyst evolution.Analyst
	if useAI {
		search := ai.DefaultSearchConfig()
		search.Enabled = cfg.SerpAPIKey != ""
		analyst = evolution.NewAIAnalyst(llm, search)
	} else {
		// Without a language model nothing can rewrite the campaign, so
		// the loop runs a single generation.
		loopOpts.MaxGenerations = 1
		analyst = nil
	}

	core.PublishEvent(events, subject, core.EventPhase, gin.H{"phase": "simulation"})
	loop := evolution.NewLoop(sim, analyst, events, subject, loopOpts)
	history, runErr := loop.Run(context.Background(), seed)

	for _, gen := range history {
		log.Print(insights.Report(gen.Result))
		if store != nil {
			if err := store.SaveSeed(runID, gen.Result.Generation, gen.Result.Seed); err != nil {
				log.Printf("run %s: persisting seed failed: %v", runID, err)
			}
			if err := store.SaveResult(runID, gen.Result); err != nil {
				log.Printf("run %s: persisting result failed: %v", runID, err)
			}
			if gen.Rationale != nil {
				if err := store.SaveRationale(runID, gen.Result.Generation, gen.Rationale); err != nil {
					log.Printf("run %s: persisting rationale failed: %v", runID, err)
				}
			}
		}
	}

	runsMu.Lock()
	runs[runID].Generations = history
	runsMu.Unlock()

	if runErr != nil {
		fail(runErr)
		return
	}

	runsMu.Lock()
	runs[runID].Status = "done"
	runsMu.Unlock()
	core.PublishEvent(events, subject, core.EventRunDone, gin.H{"generations": len(history)})
}

// GetRun reports a run's status and, once finished, its scored generations.
func GetRun(c *gin.Context) {
	runsMu.RLock()
	state, ok := runs[c.Param("runID")]
	runsMu.RUnlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
		return
	}
	c.JSON(http.StatusOK, state)
}

// GetResults returns the persisted per-generation results for a run.
func GetResults(c *gin.Context) {
	runID := c.Param("runID")
	results, err := store.GetResults(runID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(results) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No results for run"})
		return
	}
	c.JSON(http.StatusOK, results)
}

// GetAgents returns the run's population.
func GetAgents(c *gin.Context) {
	agents, err := store.GetAgents(c.Param("runID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No agents for run"})
		return
	}
	c.JSON(http.StatusOK, agents)
}

// GetGraph returns the run's social graph snapshot.
func GetGraph(c *gin.Context) {
	data, err := store.GetGraph(c.Param("runID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No graph for run"})
		return
	}
	c.JSON(http.StatusOK, data)
}
