package main

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"mahto/internal/adapter/api"
	"mahto/internal/adapter/api/handler"
	apimiddleware "mahto/internal/adapter/api/middleware"
	"mahto/internal/adapter/api/router"
	"mahto/internal/adapter/repository"
	"mahto/internal/infrastructure/cache"
	"mahto/internal/infrastructure/firebase"
	"mahto/internal/infrastructure/storage"
	"mahto/internal/infrastructure/websocket"
	"mahto/internal/usecase"
	"mahto/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opt option.ClientOption
	credentialsPath := ""

	serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON")
	if serviceAccountJSON != "" {
		opt = option.WithCredentialsJSON([]byte(serviceAccountJSON))
	} else {
		credentialsPath = os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
		if credentialsPath == "" {
			credentialsPath = "./service-account.json"
		}
		if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", credentialsPath)
		}
		opt = option.WithCredentialsFile(credentialsPath)
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, credentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	propertyRepo := repository.NewFirestorePropertyRepository(firestoreClient)
	savedPropertyRepo := repository.NewFirestoreSavedPropertyRepository(firestoreClient)
	conversationRepo := repository.NewFirestoreConversationRepository(firestoreClient)

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient, cfg.FirebaseApiKey)

	profileCache := cache.NewProfileCache(cfg.ProfileCacheTTL, cfg.ProfileCacheSize)
	wsManager := websocket.NewManager()

	authUseCase := usecase.NewAuthUseCase(userRepo, firebaseAuthClient)
	userUseCase := usecase.NewUserUseCase(userRepo, profileCache)
	propertyUseCase := usecase.NewPropertyUseCase(propertyRepo)
	savedPropertyUseCase := usecase.NewSavedPropertyUseCase(savedPropertyRepo, propertyRepo)
	chatUseCase := usecase.NewChatUseCase(conversationRepo, userRepo, propertyRepo, profileCache, wsManager, cfg.ChatWriteTimeout)

	e := echo.New()

	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(firebaseAuthClient)

	handlers := router.Handlers{
		Auth:          handler.NewAuthHandler(authUseCase),
		User:          handler.NewUserHandler(userUseCase),
		Property:      handler.NewPropertyHandler(propertyUseCase),
		SavedProperty: handler.NewSavedPropertyHandler(savedPropertyUseCase),
		Chat:          handler.NewChatHandler(chatUseCase),
		File:          handler.NewFileHandler(storageClient),
		WebSocket:     handler.NewWebSocketHandler(wsManager, chatUseCase, userUseCase),
		Health:        handler.NewHealthHandler(),
	}

	router.Setup(e, handlers, authMiddleware)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
