package main

import (
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/raulgonca/projectsync/database"
	"github.com/raulgonca/projectsync/handlers"
	"github.com/raulgonca/projectsync/logging"
	"github.com/raulgonca/projectsync/middleware"
	"github.com/raulgonca/projectsync/repositories"
	"github.com/raulgonca/projectsync/services"
)

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	if err := godotenv.Load(); err == nil {
		logging.Logger.Info("Event ID: ENV_LOADED, Description: .env file loaded")
	}
	logging.InitLogger(os.Getenv("LOG_FILE"))

	if os.Getenv("JWT_SECRET") == "" {
		logging.Logger.Fatal("Event ID: CONFIG_MISSING, Description: JWT_SECRET is not set")
	}

	db, err := database.Connect(os.Getenv("DATABASE_URL"))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECT_FAILED, Description: %v", err)
	}
	logging.Logger.Info("Event ID: DB_CONNECTED, Description: Connected to Postgres")

	fileRepoDir := envOr("FILE_REPO_DIR", "FileRepos")
	if err := os.MkdirAll(fileRepoDir, 0o755); err != nil {
		logging.Logger.Fatalf("Event ID: FILE_DIR_FAILED, Description: Could not create %s: %v", fileRepoDir, err)
	}

	userRepo := repositories.NewGormUserRepository(db)
	clientRepo := repositories.NewGormClientRepository(db)
	projectRepo := repositories.NewGormProjectRepository(db)
	fileRepo := repositories.NewGormProjectFileRepository(db)

	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo, projectRepo)
	clientService := services.NewClientService(clientRepo)
	csvService := services.NewCSVService(clientRepo)
	projectService := services.NewProjectService(projectRepo, userRepo, clientRepo, fileRepoDir)
	fileService := services.NewFileService(fileRepo, projectRepo, fileRepoDir)
	archiveService := services.NewArchiveService(fileService)

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	clientHandler := handlers.NewClientHandler(clientService, csvService)
	projectHandler := handlers.NewProjectHandler(projectService)
	fileHandler := handlers.NewFileHandler(fileService, archiveService)

	r := mux.NewRouter()

	// Public endpoints.
	public := r.PathPrefix("/api").Subrouter()
	public.HandleFunc("/login", authHandler.Login).Methods("POST")
	public.HandleFunc("/register", authHandler.Register).Methods("POST")

	// The ZIP download also accepts the token as a query parameter so that
	// plain browser download links work.
	zip := r.PathPrefix("/api").Subrouter()
	zip.Use(middleware.JWTAuthWithQueryToken)
	zip.HandleFunc("/projects/{projectId}/files/download-zip", fileHandler.DownloadZip).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.JWTAuth)

	// Users.
	api.HandleFunc("/user/all", userHandler.ListUsers).Methods("GET")
	api.HandleFunc("/user/get/{id}", userHandler.GetUser).Methods("GET")
	api.HandleFunc("/user/new", userHandler.CreateUser).Methods("POST")
	api.HandleFunc("/user/update/{id}", userHandler.UpdateUser).Methods("PUT")
	api.HandleFunc("/user/update-email/{id}", userHandler.UpdateEmail).Methods("PUT")
	api.HandleFunc("/user/update-password/{id}", userHandler.UpdatePassword).Methods("PUT")
	api.HandleFunc("/user/delete/{id}", userHandler.DeleteUser).Methods("DELETE")
	api.HandleFunc("/user/{id}/projects", projectHandler.UserProjects).Methods("GET")
	api.HandleFunc("/user/{id}/collaborations", projectHandler.UserCollaborations).Methods("GET")

	// Clients.
	api.HandleFunc("/clients", clientHandler.ListClients).Methods("GET")
	api.HandleFunc("/clients/export", clientHandler.ExportClients).Methods("GET")
	api.HandleFunc("/clients/import", clientHandler.ImportClients).Methods("POST")
	api.HandleFunc("/clients/{id}", clientHandler.GetClient).Methods("GET")
	api.HandleFunc("/createclient", clientHandler.CreateClient).Methods("POST")
	api.HandleFunc("/updateclient/{id}", clientHandler.UpdateClient).Methods("PUT")
	api.HandleFunc("/deleteclient/{id}", clientHandler.DeleteClient).Methods("DELETE")

	// Projects.
	api.HandleFunc("/repos", projectHandler.ListOwned).Methods("GET")
	api.HandleFunc("/repos/all", projectHandler.ListAll).Methods("GET")
	api.HandleFunc("/repos/colaboraciones", projectHandler.ListCollaborations).Methods("GET")
	api.HandleFunc("/repos/find/{id}", projectHandler.FindProject).Methods("GET")
	api.HandleFunc("/newrepo", projectHandler.CreateProject).Methods("POST")
	api.HandleFunc("/updaterepo/{id}", projectHandler.UpdateProject).Methods("PATCH")
	api.HandleFunc("/deleterepo/{id}", projectHandler.DeleteProject).Methods("DELETE")
	api.HandleFunc("/repo/{id}/download", projectHandler.DownloadLegacyFile).Methods("GET")

	// Collaborators.
	api.HandleFunc("/repos/{id}/colaboradores", projectHandler.ListCollaborators).Methods("GET")
	api.HandleFunc("/repos/{id}/colaboradores", projectHandler.AddCollaborator).Methods("POST")
	api.HandleFunc("/repos/{id}/colaboradores/{userId}", projectHandler.RemoveCollaborator).Methods("DELETE")

	// Project files.
	api.HandleFunc("/projects/{projectId}/files", fileHandler.Upload).Methods("POST")
	api.HandleFunc("/projects/{projectId}/files", fileHandler.List).Methods("GET")
	api.HandleFunc("/projects/{projectId}/files/{fileId}/download", fileHandler.Download).Methods("GET")
	api.HandleFunc("/projects/{projectId}/files/{fileId}/rename", fileHandler.Rename).Methods("PUT")
	api.HandleFunc("/projects/{projectId}/files/{fileId}", fileHandler.Delete).Methods("DELETE")

	corsRouter := enableCORS(r, envOr("CORS_ORIGIN", "*"))

	srv := &http.Server{
		Addr:         ":" + envOr("SERVER_PORT", "8080"),
		Handler:      corsRouter,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	logging.Logger.Infof("Event ID: SERVER_START, Description: ProjectSync API listening on %s", srv.Addr)
	logging.Logger.Fatal(srv.ListenAndServe())
}

func enableCORS(next http.Handler, origin string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
