package routes

import (
	"log"
	"net/http"
	"time"

	"contenthub/app/controllers"
	"contenthub/app/identity"
	"contenthub/app/live"
	"contenthub/app/middleware"
	"contenthub/app/objectstore"
	"contenthub/app/repositories"
	"contenthub/app/services"

	"github.com/gorilla/mux"
)

// Deps are the collaborators the router is built from.
type Deps struct {
	Repos       repositories.Set
	Gate        *identity.Gate
	Uploader    objectstore.Uploader
	ImagePolicy objectstore.Policy
	Hub         *live.Hub
	FeedLimit   int
	ProfileTTL  time.Duration
	BaseURL     string
}

// SetupRoutes defines the application's routes and returns a router. The
// returned func releases the resources the router holds.
func SetupRoutes(d Deps) (*mux.Router, func(), error) {
	if d.Hub == nil {
		d.Hub = live.NewHub()
	}
	aggregator, err := services.NewProfileAggregator(d.Repos.Users, d.Repos.Comments, d.ProfileTTL)
	if err != nil {
		return nil, nil, err
	}

	release := d.Gate.Events().Subscribe(func(c identity.Change) {
		if c.Identity == nil {
			return
		}
		if c.SignedIn {
			log.Printf("identity %s signed in", c.Identity.UID)
		} else {
			log.Printf("identity %s signed out", c.Identity.UID)
		}
		aggregator.Invalidate(c.Identity.UID)
	})
	cleanup := func() {
		release()
		aggregator.Close()
	}

	authController := controllers.NewAuthController(d.Gate)
	postController := controllers.NewPostController(
		services.NewAuthoringService(d.Repos.Posts, d.Uploader),
		services.NewOwnerContentService(d.Repos.Posts, d.Repos.Comments, d.Uploader, d.ImagePolicy),
	)
	feedController := controllers.NewFeedController(
		services.NewFeedService(d.Repos.Posts, d.Repos.Comments, d.Repos.Reports, aggregator, d.FeedLimit),
		d.BaseURL,
	)
	likeController := controllers.NewLikeController(services.NewLikeService(d.Repos.Posts))
	commentController := controllers.NewCommentController(services.NewCommentService(d.Repos.Comments, d.Repos.Posts, d.Hub))

	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.ContentTypeJSON)
	router.Use(middleware.Authenticate(d.Gate))

	gated := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireIdentity(h)
	}

	api := router.PathPrefix("/api").Subrouter()

	// Auth endpoints
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/signup", authController.SignUp).Methods("POST")
	auth.HandleFunc("/signin", authController.SignIn).Methods("POST")
	auth.Handle("/signout", gated(authController.SignOut)).Methods("POST")
	auth.Handle("/me", gated(authController.Me)).Methods("GET")

	// Public feed endpoints
	api.HandleFunc("/feed", feedController.Index).Methods("GET")
	posts := api.PathPrefix("/posts").Subrouter()
	posts.HandleFunc("/featured", feedController.Featured).Methods("GET")
	posts.HandleFunc("/{id}", feedController.Show).Methods("GET")
	posts.Handle("/{id}/report", gated(feedController.Report)).Methods("POST")
	posts.HandleFunc("/{id}/share", feedController.Share).Methods("GET")

	// Owner content endpoints
	posts.Handle("", gated(postController.Create)).Methods("POST")
	posts.Handle("/{id}", gated(postController.Edit)).Methods("PATCH")
	posts.Handle("/{id}", gated(postController.Delete)).Methods("DELETE")
	api.Handle("/my/posts", gated(postController.Mine)).Methods("GET")

	// Likes
	posts.HandleFunc("/{id}/likes", likeController.Status).Methods("GET")
	posts.Handle("/{id}/likes/toggle", gated(likeController.Toggle)).Methods("POST")

	// Comments
	posts.HandleFunc("/{id}/comments", commentController.Index).Methods("GET")
	posts.Handle("/{id}/comments", gated(commentController.Create)).Methods("POST")
	posts.HandleFunc("/{id}/comments/live", commentController.Live).Methods("GET")
	api.Handle("/comments/{id}", gated(commentController.Edit)).Methods("PUT")
	api.Handle("/comments/{id}", gated(commentController.Delete)).Methods("DELETE")

	router.NotFoundHandler = middleware.ContentTypeJSON(http.HandlerFunc(notFound))

	return router, cleanup, nil
}

func notFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":"Page not found"}` + "\n"))
}
