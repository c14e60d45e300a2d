//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 使用方式：
// Step 1: 运行 `wire gen ./cmd/api`
// Step 2: Wire生成wire_gen.go，包含完整的依赖创建代码
// Step 3: main.go调用wire_gen.go中的InitializeApp()
//
// 核心概念：
// - Provider: 提供依赖的构造函数（如NewUserRepository）
// - Injector: 声明最终要构造的目标类型（*gin.Engine）
// - wire.Build(): 告诉Wire如何组装依赖链

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"

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
	"github.com/xiebiao/bookshop/pkg/mq"
)

// infrastructureSet 基础设施层依赖
var infrastructureSet = wire.NewSet(
	config.Load,     // 加载配置文件
	mysql.NewDB,     // 创建MySQL连接
	redis.NewClient, // 创建Redis连接
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	mysql.NewUserRepository,   // 用户仓储
	mysql.NewBookRepository,   // 图书仓储
	mysql.NewOrderRepository,  // 订单仓储
	mysql.NewWalletRepository, // 钱包仓储
	mysql.NewOtpRepository,    // 验证码仓储
	mysql.NewTxManager,        // 事务管理器
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	user.NewService, // 用户领域服务
	book.NewService, // 图书领域服务
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appauth.NewRegisterUseCase,
	appauth.NewLoginUseCase,
	appauth.NewLogoutUseCase,
	appauth.NewGoogleLoginUseCase,
	appauth.NewPasswordResetUseCase,
	appauth.NewChangePasswordUseCase,

	appbook.NewPublishBookUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewUpdateStockUseCase,
	appbook.NewDisableBookUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewRankingUseCase,

	apporder.NewCreateOrderUseCase,
	apporder.NewCancelOrderUseCase,
	apporder.NewConfirmReceivedUseCase,
	apporder.NewListMyOrdersUseCase,

	appadmin.NewApproveOrderUseCase,
	appadmin.NewAssignOrderUseCase,
	appadmin.NewListOrdersUseCase,
	appadmin.NewOrderDetailUseCase,
)

// middlewareSet 中间件依赖
var middlewareSet = wire.NewSet(
	provideJWTManager,
	provideSessionStore,
	middleware.NewAuthMiddleware,
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewUserHandler,
	handler.NewBookHandler,
	handler.NewOrderHandler,
	handler.NewAdminHandler,
)

// bindingSet 接口绑定
// 应用层按消费方定义了TxManager/EventPublisher/Sender接口，
// Wire需要显式知道用哪个实现来满足它们
var bindingSet = wire.NewSet(
	wire.Bind(new(appauth.TxManager), new(*mysql.TxManager)),
	wire.Bind(new(apporder.TxManager), new(*mysql.TxManager)),
	wire.Bind(new(appadmin.TxManager), new(*mysql.TxManager)),
	provideOrderPublisher,
	provideAdminPublisher,
	provideMailer,
)

// ========================================
// Custom Providers
// ========================================

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideSessionStore 从Redis客户端创建Session存储
func provideSessionStore(client *goredis.Client) *redis.SessionStore {
	return redis.NewSessionStore(client)
}

// provideOrderPublisher 订单事件发布器
// mq.enabled=false时使用Noop实现，事件直接丢弃
func provideOrderPublisher(cfg *config.Config) (apporder.EventPublisher, error) {
	if !cfg.MQ.Enabled {
		return mq.NoopPublisher{}, nil
	}
	return mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
}

// provideAdminPublisher 管理侧事件发布器
func provideAdminPublisher(cfg *config.Config) (appadmin.EventPublisher, error) {
	if !cfg.MQ.Enabled {
		return mq.NoopPublisher{}, nil
	}
	return mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
}

// provideMailer 邮件发送器
// 未配置SMTP主机时使用Noop实现（验证码打印到日志）
func provideMailer(cfg *config.Config) mail.Sender {
	if cfg.Mail.Host == "" {
		return mail.NoopMailer{}
	}
	return mail.NewSMTPMailer(cfg)
}

// provideGinEngine 创建并配置Gin引擎
func provideGinEngine(
	cfg *config.Config,
	userHandler *handler.UserHandler,
	bookHandler *handler.BookHandler,
	orderHandler *handler.OrderHandler,
	adminHandler *handler.AdminHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.Metrics())

	// 路由注册与main.go共用（含健康检查、指标、Swagger）
	registerRoutes(r, userHandler, bookHandler, orderHandler, adminHandler, authMiddleware)

	return r
}

// InitializeApp 初始化整个应用
// Wire会按正确的顺序调用所有构造函数，生成代码写入wire_gen.go
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		middlewareSet,
		handlerSet,
		bindingSet,
		provideGinEngine,
	)

	return nil, nil
}
