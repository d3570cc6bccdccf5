// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"rfp-ai-go/internal/config"
	"rfp-ai-go/internal/handler"
	"rfp-ai-go/internal/middleware"
	"rfp-ai-go/internal/repository"
	"rfp-ai-go/internal/service"
	"rfp-ai-go/pkg/database"
	"rfp-ai-go/pkg/es"
	"rfp-ai-go/pkg/kafka"
	"rfp-ai-go/pkg/llm"
	"rfp-ai-go/pkg/log"
	"rfp-ai-go/pkg/mail"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

func main() {
	// 1. 初始化配置
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 初始化数据库、Redis、Elasticsearch 和 Kafka
	database.InitMySQL(cfg.Database.MySQL.DSN)
	database.InitRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
	if err := es.InitES(cfg.Elasticsearch); err != nil {
		log.Errorf("es 初始化失败 %s", err)
		return
	}
	kafka.InitProducer(cfg.Kafka)

	// 4. 初始化 Repository
	vendorRepo := repository.NewVendorRepository(database.DB)
	rfpRepo := repository.NewRfpRepository(database.DB)
	proposalRepo := repository.NewProposalRepository(database.DB)
	reportRepo := repository.NewReportRepository(database.RDB)

	// 5. 初始化外部客户端与 Service (依赖注入)
	llmClient := llm.NewClient(cfg.LLM)
	mailSender := mail.NewSender(cfg.Mail.SMTP)
	mailInbox := mail.NewInbox(cfg.Mail.IMAP)

	vendorService := service.NewVendorService(vendorRepo)
	rfpService := service.NewRfpService(rfpRepo, llmClient)
	proposalService := service.NewProposalService(proposalRepo, vendorRepo, rfpRepo, llmClient, cfg.Elasticsearch.IndexName)
	emailService := service.NewEmailService(rfpRepo, vendorRepo, reportRepo, mailSender, mailInbox, proposalService)
	searchService := service.NewSearchService(es.ESClient, cfg.Elasticsearch.IndexName)

	// 6. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New() // 使用 New() 创建一个不带默认中间件的引擎
	// 添加我们自定义的日志中间件和 Gin 的 Recovery 中间件
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// 7. 注册路由
	api := r.Group("/api")
	{
		// RFP 路由组
		rfp := api.Group("/rfp")
		{
			rfp.POST("/create", handler.NewRfpHandler(rfpService).CreateRfp)
			rfp.GET("", handler.NewRfpHandler(rfpService).ListRfps)
		}

		// 供应商目录路由组
		vendors := api.Group("/vendors")
		{
			vendors.POST("/add", handler.NewVendorHandler(vendorService).AddVendor)
			vendors.GET("", handler.NewVendorHandler(vendorService).ListVendors)
		}

		// 邮件路由组：出站群发与收件批处理
		email := api.Group("/email")
		{
			email.POST("/send/:rfpId", handler.NewEmailHandler(emailService).SendRfp)
			email.GET("/read", handler.NewEmailHandler(emailService).ReadInbox)
		}

		// 提案路由组
		proposals := api.Group("/proposals")
		{
			proposals.GET("", handler.NewProposalHandler(proposalService, searchService).ListProposals)
			proposals.GET("/rfp/:rfpId", handler.NewProposalHandler(proposalService, searchService).ListByRfp)
			proposals.POST("/compare", handler.NewProposalHandler(proposalService, searchService).Compare)
			proposals.GET("/search", handler.NewProposalHandler(proposalService, searchService).SearchProposals)
		}
	}

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	// 设置一个5秒的超时上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 关闭 HTTP 服务器
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}

	log.Info("服务已优雅关闭")
}
