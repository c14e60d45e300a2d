package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/xiebiao/bookshop/docs"
	appadmin "github.com/xiebiao/bookshop/internal/application/admin"
	appauth "github.com/xiebiao/bookshop/internal/application/auth"
	appbook "github.com/xiebiao/bookshop/internal/application/book"
	apporder "github.com/xiebiao/bookshop/internal/application/order"
	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/internal/infrastructure/config"
	"github.com/xiebiao/bookshop/internal/infrastructure/mail"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookshop/internal/interface/http/handler"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	"github.com/xiebiao/bookshop/pkg/jwt"
	"github.com/xiebiao/bookshop/pkg/metrics"
	"github.com/xiebiao/bookshop/pkg/mq"
	"github.com/xiebiao/bookshop/pkg/response"
)

// main 主程序入口
// 说明：手动依赖注入（wire.go提供Wire版本，运行wire gen可生成自动装配代码）
//
//	@title			Bookshop API
//	@version		1.0
//	@description	在线书店后端服务API文档
//	@host			localhost:8080
//	@BasePath		/api/v1
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	fmt.Printf("✓ 配置加载成功\n")
	fmt.Printf("  - 服务端口: %d\n", cfg.Server.Port)
	fmt.Printf("  - 运行模式: %s\n", cfg.Server.Mode)
	fmt.Printf("  - 数据库: %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	fmt.Printf("  - Redis: %s\n", cfg.Redis.Addr())

	// 2. 初始化Prometheus指标
	metrics.InitMetrics()

	// 3. 初始化数据库连接
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	// 4. 初始化Redis连接
	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}

	// 5. 初始化消息队列（未启用时使用Noop实现，事件直接丢弃）
	var publisher apporder.EventPublisher = mq.NoopPublisher{}
	var adminPublisher appadmin.EventPublisher = mq.NoopPublisher{}
	var mqCloser *mq.Publisher
	if cfg.MQ.Enabled {
		p, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
		if err != nil {
			log.Fatalf("初始化RabbitMQ失败: %v", err)
		}
		publisher = p
		adminPublisher = p
		mqCloser = p
	}

	// 6. 初始化邮件发送器（未配置SMTP时使用Noop实现）
	var mailer mail.Sender = mail.NoopMailer{}
	if cfg.Mail.Host != "" {
		mailer = mail.NewSMTPMailer(cfg)
	}

	// 7. 依赖注入（手动组装）
	// Repository ← Service ← UseCase ← Handler

	// 基础设施层
	userRepo := mysql.NewUserRepository(db)
	bookRepo := mysql.NewBookRepository(db)
	orderRepo := mysql.NewOrderRepository(db)
	walletRepo := mysql.NewWalletRepository(db)
	otpRepo := mysql.NewOtpRepository(db)
	txManager := mysql.NewTxManager(db)
	sessionStore := redis.NewSessionStore(redisClient)
	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)

	// 领域层
	userService := user.NewService(userRepo)
	bookService := book.NewService(bookRepo)

	// 应用层
	registerUseCase := appauth.NewRegisterUseCase(userService, walletRepo, txManager)
	loginUseCase := appauth.NewLoginUseCase(userService, walletRepo, jwtManager, sessionStore)
	logoutUseCase := appauth.NewLogoutUseCase(sessionStore)
	googleLoginUseCase := appauth.NewGoogleLoginUseCase(userRepo, walletRepo, txManager, jwtManager, sessionStore)
	passwordResetUseCase := appauth.NewPasswordResetUseCase(userRepo, userService, otpRepo, mailer, txManager)
	changePasswordUseCase := appauth.NewChangePasswordUseCase(userRepo, userService)

	publishBookUseCase := appbook.NewPublishBookUseCase(bookService)
	updateBookUseCase := appbook.NewUpdateBookUseCase(bookService)
	updateStockUseCase := appbook.NewUpdateStockUseCase(bookService)
	disableBookUseCase := appbook.NewDisableBookUseCase(bookService)
	listBooksUseCase := appbook.NewListBooksUseCase(bookService)
	getBookUseCase := appbook.NewGetBookUseCase(bookService)
	rankingUseCase := appbook.NewRankingUseCase(bookService)

	createOrderUseCase := apporder.NewCreateOrderUseCase(orderRepo, bookRepo, walletRepo, txManager, publisher)
	cancelOrderUseCase := apporder.NewCancelOrderUseCase(orderRepo, walletRepo, txManager, publisher)
	confirmReceivedUseCase := apporder.NewConfirmReceivedUseCase(orderRepo)
	listMyOrdersUseCase := apporder.NewListMyOrdersUseCase(orderRepo, bookRepo)

	approveOrderUseCase := appadmin.NewApproveOrderUseCase(orderRepo, bookRepo, txManager, adminPublisher)
	assignOrderUseCase := appadmin.NewAssignOrderUseCase(orderRepo)
	adminListOrdersUseCase := appadmin.NewListOrdersUseCase(orderRepo, userRepo, bookRepo)
	orderDetailUseCase := appadmin.NewOrderDetailUseCase(orderRepo, userRepo, bookRepo)

	// 接口层
	userHandler := handler.NewUserHandler(
		registerUseCase, loginUseCase, logoutUseCase,
		googleLoginUseCase, passwordResetUseCase, changePasswordUseCase,
	)
	bookHandler := handler.NewBookHandler(
		publishBookUseCase, updateBookUseCase, updateStockUseCase, disableBookUseCase,
		listBooksUseCase, getBookUseCase, rankingUseCase,
	)
	orderHandler := handler.NewOrderHandler(
		createOrderUseCase, cancelOrderUseCase, confirmReceivedUseCase, listMyOrdersUseCase,
	)
	adminHandler := handler.NewAdminHandler(
		approveOrderUseCase, assignOrderUseCase, adminListOrdersUseCase, orderDetailUseCase,
	)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore)

	// 8. 初始化Gin引擎
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middleware.Metrics())

	// 9. 注册路由
	registerRoutes(r, userHandler, bookHandler, orderHandler, adminHandler, authMiddleware)

	// 10. 启动服务（支持优雅关闭）
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		fmt.Printf("\n🚀 服务启动成功！\n")
		fmt.Printf("   访问地址: http://localhost%s\n", addr)
		fmt.Printf("   健康检查: http://localhost%s/ping\n", addr)
		fmt.Printf("   API文档:  http://localhost%s/swagger/index.html\n", addr)
		fmt.Printf("   指标采集: http://localhost%s/metrics\n", addr)
		fmt.Printf("\n按Ctrl+C停止服务\n\n")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("启动服务失败: %v", err)
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("服务关闭异常: %v", err)
	}
	if mqCloser != nil {
		_ = mqCloser.Close()
	}
	log.Println("服务已退出")
}

// registerRoutes 注册路由
func registerRoutes(
	r *gin.Engine,
	userHandler *handler.UserHandler,
	bookHandler *handler.BookHandler,
	orderHandler *handler.OrderHandler,
	adminHandler *handler.AdminHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档（生产环境建议禁用或加访问控制）
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API路由组
	v1 := r.Group("/api/v1")
	{
		// 认证模块（公开接口）
		auth := v1.Group("/auth")
		{
			auth.POST("/register", userHandler.Register)
			auth.POST("/login", userHandler.Login)
			auth.POST("/google", userHandler.GoogleLogin)
			auth.POST("/password/reset-request", userHandler.RequestPasswordReset)
			auth.POST("/password/verify-otp", userHandler.VerifyOtp)
			auth.POST("/password/reset", userHandler.ResetPassword)

			// 登出需要携带Token
			auth.POST("/logout", authMiddleware.RequireAuth(), userHandler.Logout)
		}

		// 用户模块（需要登录）
		users := v1.Group("/users")
		users.Use(authMiddleware.RequireAuth())
		{
			users.PUT("/password", userHandler.ChangePassword)
		}

		// 图书模块
		books := v1.Group("/books")
		{
			// 公开接口
			books.GET("", bookHandler.ListBooks)
			books.GET("/best-sellers", bookHandler.BestSellers)
			books.GET("/new-arrivals", bookHandler.NewArrivals)
			books.GET("/:id", bookHandler.GetBook)

			// 管理员接口
			adminBooks := books.Group("")
			adminBooks.Use(authMiddleware.RequireAuth(), authMiddleware.RequireAdmin())
			{
				adminBooks.POST("", bookHandler.PublishBook)
				adminBooks.PUT("/:id", bookHandler.UpdateBook)
				adminBooks.PUT("/:id/stock", bookHandler.UpdateStock)
				adminBooks.DELETE("/:id", bookHandler.DisableBook)
			}
		}

		// 订单模块（需要登录）
		orders := v1.Group("/orders")
		orders.Use(authMiddleware.RequireAuth())
		{
			orders.POST("", orderHandler.CreateOrder)
			orders.GET("", orderHandler.ListMyOrders)
			orders.POST("/:id/cancel", orderHandler.CancelOrder)
			orders.POST("/:id/received", orderHandler.ConfirmReceived)
		}

		// 管理模块（需要管理员角色）
		admin := v1.Group("/admin")
		admin.Use(authMiddleware.RequireAuth(), authMiddleware.RequireAdmin())
		{
			admin.GET("/orders", adminHandler.ListOrders)
			admin.GET("/orders/:id", adminHandler.OrderDetail)
			admin.POST("/orders/:id/approve", adminHandler.ApproveOrder)
			admin.POST("/orders/:id/assign", adminHandler.AssignOrder)
		}
	}
}
