package main

import (
	"mercado_local/internal/api/initsvc"
	"mercado_local/internal/global"
	"mercado_local/internal/logger"
)

func InitDefaultData() {
	log := logger.GetAppLogger()
	log.Info("🔄 [INIT] Starting InitDefaultData...")

	initService, err := initsvc.NewInitService()
	if err != nil {
		log.Fatalf("Failed to initialize init service: %v", err)
	}

	// Seed producer plan admin cho tài khoản vận hành nền tảng (nếu có config) - Tùy chọn
	// Producer plan admin dùng để quản trị, không connect Mercado Pago như producer thường
	if global.MongoDB_ServerConfig.AdminUserID != "" {
		log.Info("🔄 [INIT] Step 1: Initializing admin producer...")
		if err := initService.InitAdminProducer(global.MongoDB_ServerConfig.AdminUserID); err != nil {
			log.Warnf("Failed to initialize admin producer: %v", err)
		} else {
			log.Info("✅ [INIT] Step 1: Admin producer initialized")
		}
	} else {
		log.Info("ADMIN_USER_ID not set, skipping admin producer seed")
	}

	log.Info("✅ [INIT] InitDefaultData completed successfully")
}
