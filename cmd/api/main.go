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

	"myshop/internal/adapter/api"
	"myshop/internal/adapter/api/handler"
	apimiddleware "myshop/internal/adapter/api/middleware"
	"myshop/internal/adapter/api/router"
	"myshop/internal/adapter/repository"
	"myshop/internal/infrastructure/firebase"
	"myshop/internal/infrastructure/websocket"
	"myshop/internal/usecase"
	"myshop/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opts []option.ClientOption

	serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON")
	if serviceAccountJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(serviceAccountJSON)))
	} else if serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"); serviceAccountPath != "" {
		if _, err := os.Stat(serviceAccountPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", serviceAccountPath)
		}
		opts = append(opts, option.WithCredentialsFile(serviceAccountPath))
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	fbAuth, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	chatRepo := repository.NewFirestoreChatRepository(firestoreClient)
	faqRepo := repository.NewFirestoreFAQRepository(firestoreClient)

	authClient := firebase.NewAuthClient(fbAuth)

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	// The room manager is an explicit dependency of the dispatcher; nothing
	// reaches it through a global.
	chatUseCase := usecase.NewChatUseCase(chatRepo, userRepo, wsManager)
	faqUseCase := usecase.NewFAQUseCase(faqRepo)

	e := echo.New()

	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Origins(),
	}))

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)
	adminMiddleware := apimiddleware.NewAdminMiddleware(userRepo)

	chatHandler := handler.NewChatHandler(chatUseCase)
	faqHandler := handler.NewFAQHandler(faqUseCase)
	wsHandler := handler.NewWebSocketHandler(wsManager, authMiddleware, cfg.Origins())
	healthHandler := handler.NewHealthHandler()

	router.Setup(e, chatHandler, faqHandler, wsHandler, healthHandler, authMiddleware, adminMiddleware)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
