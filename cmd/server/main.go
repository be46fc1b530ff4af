package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	aliasservice "github.com/wso2/institution-link-service/internal/alias/service"
	"github.com/wso2/institution-link-service/internal/audit"
	guardianmodel "github.com/wso2/institution-link-service/internal/guardian/model"
	guardianservice "github.com/wso2/institution-link-service/internal/guardian/service"
	"github.com/wso2/institution-link-service/internal/matching/index"
	"github.com/wso2/institution-link-service/internal/matching/retriever"
	matchingservice "github.com/wso2/institution-link-service/internal/matching/service"
	"github.com/wso2/institution-link-service/internal/oracle"
	registryservice "github.com/wso2/institution-link-service/internal/registry/service"
	"github.com/wso2/institution-link-service/internal/system/config"
	"github.com/wso2/institution-link-service/internal/system/constants"
	syslog "github.com/wso2/institution-link-service/internal/system/log"
	"github.com/wso2/institution-link-service/internal/system/managers"
)

func main() {
	ilsHome := getILSHome()
	const configFile = "/repository/conf/deployment.yaml"

	envFiles, err := filepath.Glob("config/*.env")
	if err == nil && len(envFiles) > 0 {
		_ = godotenv.Load(envFiles...)
	}

	// Load the configuration file
	ilsConfig, err := config.LoadConfig(ilsHome, configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize runtime configurations.
	if err := config.InitializeILSRuntime(ilsHome, ilsConfig); err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	// Initialize logger
	logLevel := ilsConfig.Log.LogLevel
	if logLevel == "" {
		logLevel = "INFO"
	}
	if err := syslog.Init(logLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logger := syslog.GetLogger()

	// Warm up the registry snapshot.
	registry := registryservice.GetRegistryService()
	snapshot, err := registry.Load()
	if err != nil {
		logger.Fatal("Failed to load the institution registry", syslog.Error(err))
	}
	logger.Audit(syslog.AuditEvent{
		InitiatorType: syslog.InitiatorTypeSystem,
		TargetType:    syslog.TargetTypeInstitution,
		ActionID:      syslog.ActionRegistryLoad,
		Data:          map[string]interface{}{"institutions": snapshot.Size()},
	})

	// Build the optional secondary indexes.
	var fullText, vector retriever.NameIndex
	if ilsConfig.Matching.EnableFullText {
		fullTextIndex := index.NewFullTextIndex()
		for _, stream := range snapshot.Streams() {
			if err := fullTextIndex.BuildPartition(stream, snapshot.Partition(stream)); err != nil {
				logger.Fatal("Failed to build full-text index", syslog.Error(err))
			}
		}
		fullText = fullTextIndex
	}
	if ilsConfig.Matching.EnableVector {
		vectorIndex := index.NewVectorIndex(ilsConfig.Matching.VectorCutoff)
		for _, stream := range snapshot.Streams() {
			if err := vectorIndex.BuildPartition(stream, snapshot.Partition(stream)); err != nil {
				logger.Fatal("Failed to build vector index", syslog.Error(err))
			}
		}
		vector = vectorIndex
	}

	// Wire the retriever, the oracle and the matching service.
	options := retriever.Options{
		MinScore:   ilsConfig.Matching.MinScore,
		TopN:       ilsConfig.Matching.TopN,
		FuzzyFloor: ilsConfig.Matching.FuzzyFloor,
	}
	candidateRetriever := retriever.NewRetriever(snapshot, aliasservice.GetAliasService(),
		fullText, vector, options)

	var decider oracle.DecisionOracle = &oracle.TopCandidate{}
	if ilsConfig.Oracle.Endpoint != "" {
		decider = oracle.NewHTTPOracle(ilsConfig.Oracle)
	}
	decider = oracle.Bounded(decider, time.Duration(ilsConfig.Oracle.TimeoutSeconds)*time.Second)
	matchingservice.InitMatchingService(candidateRetriever, decider)

	// Wire the guardian with its rule settings and the audit sink.
	settings, err := guardianmodel.LoadRuleSettings(ilsConfig.Guardian.RulesFile)
	if err != nil {
		logger.Warn("Failed to load guardian rules file, using defaults", syslog.Error(err))
	}
	sinkCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	sink, err := audit.NewSink(sinkCtx, ilsConfig.AuditStore)
	cancel()
	if err != nil {
		logger.Fatal("Failed to initialize the audit sink", syslog.Error(err))
	}
	guardianservice.InitGuardianService(settings, registry, sink, ilsConfig.Guardian.Workers)

	serverAddr := fmt.Sprintf("%s:%d", ilsConfig.Addr.Host, ilsConfig.Addr.Port)
	mux := enableCORS(initMultiplexer())
	ln, err := net.Listen("tcp", serverAddr)
	if err != nil {
		logger.Fatal("Failed to start listener", syslog.Error(err))
	}

	logger.Info("WSO2 ILS started", syslog.String("addr", serverAddr))

	server := &http.Server{Handler: mux}
	if err := server.Serve(ln); err != nil {
		logger.Error("Failed to serve requests", syslog.Error(err))
	}
}

// initMultiplexer initializes the HTTP multiplexer and registers the services.
func initMultiplexer() *http.ServeMux {

	mux := http.NewServeMux()
	serviceManager := managers.NewServiceManager(mux)

	// Register the services.
	if err := serviceManager.RegisterServices(constants.ApiBasePath); err != nil {
		syslog.GetLogger().Error("Failed to register the services", syslog.Error(err))
	}

	return mux
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func getILSHome() string {

	// Parse project directory from command line arguments.
	projectHome := ""
	projectHomeFlag := flag.String("ilsHome", "", "Path to institution link service home directory")
	flag.Parse()

	if *projectHomeFlag != "" {
		projectHome = *projectHomeFlag
	} else {
		// If no command line argument is provided, use the current working directory.
		dir, dirErr := os.Getwd()
		if dirErr != nil {
			log.Fatalf("Failed to get current working directory: %v", dirErr)
		}
		projectHome = dir
	}

	return projectHome
}
