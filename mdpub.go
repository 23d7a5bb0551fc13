// Package mdpub 将 Markdown 文档转换为 Telegram 频道消息和 Telegraph 页面
//
// 这个包提供了两条转换管线：
//   - Telegram：Markdown -> HTML -> 仅含 Telegram 支持标签的扁平 HTML 字符串
//   - Telegraph：Markdown -> HTML -> 提取标题 -> Telegraph 节点树
//
// 本地图片可以通过 Uploader（默认是 ImgBB）重新托管为公开 URL。
// Telegram 管线在上传失败时使用占位文本继续；Telegraph 管线先上传全部图片，
// 得到只读的 AssetMap 后再生成节点树。
//
// 示例：
//
//	// Telegram 消息
//	html, err := mdpub.TelegramHTML(ctx, "post.md", mdpub.WithImgBBKey(key))
//
//	// Telegraph 页面
//	page, err := mdpub.CompileTelegraph(ctx, "post.md", mdpub.WithImgBBKey(key))
//	fmt.Println(page.Title, len(page.Nodes))
package mdpub
