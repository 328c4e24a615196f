// 包 version：集中维护服务版本号，供入口与 /api/version 端点引用
package version

// Version：语义化版本；发布时手工更新
const Version = "0.4.2"
