// Package api contains all endpoints available
package api

import (
	"fmt"
	"time"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"kotubrief/book-api/ai"
	"kotubrief/book-api/db"
	"kotubrief/book-api/mail"
	"kotubrief/book-api/middleware"
	"kotubrief/book-api/security"
	"kotubrief/book-api/storage"
	"kotubrief/book-api/tts"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var store = persist.NewMemoryStore(time.Minute)

type API struct {
	DB     *gorm.DB
	Router *gin.Engine
	Argon  *security.ArgonHash
	Mail   mail.Mailer
	AI     ai.Client
	TTS    tts.Synthesizer
	Store  storage.Store
}

func NewRouter() (*API, error) {
	a := &API{
		Argon: security.NewArgon(),
		Mail:  mail.NewSMTP(),
		AI:    ai.NewOpenAI(),
		TTS:   tts.NewHTTP(),
	}

	database, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}
	a.DB = database

	st, err := storage.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage, %w", err)
	}
	a.Store = st

	makeLogger()

	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     []string{"*"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-Id"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v, ok := c.Get("userID"); ok {
					fields = append(fields, zap.Any("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true
	router.MaxMultipartMemory = 5 << 20

	a.registerRoutes()

	tts.AudioCleanup(time.Hour)

	return a, nil
}

func (a *API) registerRoutes() {
	router := a.Router

	jwt := middleware.NewJWTMiddleware(a.DB)
	jsonBody := middleware.BodySizeLimiter(1 << 20)
	fileBody := middleware.BodySizeLimiter(50 << 20)
	limited := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: viper.GetInt("rate.rps"),
		Burst:             viper.GetInt("rate.burst"),
	})

	// HEAD /heartbeat		-> Used to check if the server is alive
	router.HEAD("/heartbeat", a.Heartbeat)

	// HEAD /validate		-> Validates a session token
	router.HEAD("/validate", jwt, a.Validate)

	auth := router.Group("", jsonBody)
	{
		// POST /signup			-> Registers a user and mails the first OTP
		auth.POST("/signup", limited, a.Signup)

		// POST /verify-otp		-> Redeems an OTP and confirms the email
		auth.POST("/verify-otp", limited, a.VerifyOTP)

		// POST /signin			-> Logs a user in and returns a session token
		auth.POST("/signin", a.SignIn)

		// GET /me			-> Returns the authenticated user's profile
		auth.GET("/me", jwt, a.Me)

		// POST /forgot-password	-> Mails a password reset OTP
		auth.POST("/forgot-password", limited, a.ForgotPassword)

		// POST /reset-password		-> Redeems a reset OTP and sets a new password
		auth.POST("/reset-password", limited, a.ResetPassword)

		// POST /change-password	-> Replaces the password of a signed-in user
		auth.POST("/change-password", jwt, a.ChangePassword)
	}

	gen := router.Group("", jsonBody)
	{
		// POST /generate-summary	-> Summarizes a known book by title/author
		gen.POST("/generate-summary", a.GenerateSummary)

		// POST /generate-own-summary	-> Summarizes a user-supplied description
		gen.POST("/generate-own-summary", a.GenerateOwnSummary)

		// POST /ask-question		-> Answers a question about a book
		gen.POST("/ask-question", a.AskQuestion)

		// POST /generate-mcqs		-> Generates a 5-question quiz
		gen.POST("/generate-mcqs", a.GenerateMCQs)

		// POST /generate-tts		-> Synthesizes text into an mp3
		gen.POST("/generate-tts", a.GenerateTTS)
	}

	// GET /audio/:filename		-> Serves a synthesized mp3
	router.GET("/audio/:filename", a.AudioServe)

	books := router.Group("/books")
	{
		// GET /books/all		-> Paged catalog listing
		books.GET("/all", cacheFor(30), a.BooksAll)

		// GET /books/trending		-> Random picks from the Literature shelf
		books.GET("/trending", cacheFor(30), a.BooksTrending)

		// GET /books/featured		-> Random picks from the History shelf
		books.GET("/featured", cacheFor(30), a.BooksFeatured)

		// GET /books/by-category	-> Books filtered by main/sub category
		books.GET("/by-category", cacheFor(30), a.BooksByCategory)

		// GET /books/categories	-> Distinct main -> sub category map
		books.GET("/categories", cacheFor(30), a.BooksCategories)
	}

	// POST /upload-book		-> Creates a book owned by the caller
	router.POST("/upload-book", jwt, jsonBody, a.BookUpload)

	// GET /user-books/:user_id	-> Lists the books a user uploaded
	router.GET("/user-books/:user_id", a.BooksOfUser)

	// GET /get-user-books		-> Lists the caller's own books
	router.GET("/get-user-books", jwt, a.BooksOfCaller)

	// GET /get-book/:book_id	-> Fetches one book with its description
	router.GET("/get-book/:book_id", a.BookFetch)

	// PUT /update-book/:book_id	-> Replaces a book's description
	router.PUT("/update-book/:book_id", jsonBody, a.BookUpdate)

	// DELETE /delete-book/:book_id	-> Deletes a book
	router.DELETE("/delete-book/:book_id", a.BookDelete)

	// POST /append-text-to-book	-> Appends extracted text to a description
	router.POST("/append-text-to-book", fileBody, a.BookAppendText)

	library := router.Group("/library", jwt, jsonBody)
	{
		// POST /library/add		-> Saves a book to a user's library
		library.POST("/add", a.LibraryAdd)

		// POST /library/remove		-> Removes a book from a user's library
		library.POST("/remove", a.LibraryRemove)

		// GET /library/check		-> Reports whether a book is saved
		library.GET("/check", a.LibraryCheck)

		// GET /library/list		-> Lists a user's saved books
		library.GET("/list", a.LibraryList)
	}

	// POST /extract-text		-> Extracts plain text from an uploaded document
	router.POST("/extract-text", fileBody, a.ExtractText)

	// POST /upload-book-cover	-> Stores a cover image and returns its URL
	router.POST("/upload-book-cover", fileBody, a.CoverUpload)

	// GET /uploads/:filename	-> Serves locally stored uploads
	router.GET("/uploads/:filename", a.UploadServe)
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(store, time.Second*time.Duration(sec))
}
