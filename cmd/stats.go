package cmd

import (
	"fmt"
	"os"

	"github.com/nsxzhou1114/author-blog/internal/model"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// statsCmd 统计信息命令
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "显示内容统计信息",
	Run: func(cmd *cobra.Command, args []string) {
		db, err := initializeSystem()
		if err != nil {
			fmt.Printf("系统初始化失败: %v\n", err)
			os.Exit(1)
		}
		if err := showStats(db); err != nil {
			fmt.Printf("统计失败: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

// contentStats 内容统计
type contentStats struct {
	Users      int64
	Authors    int64
	Superusers int64
	Inactive   int64
	Categories int64
	Articles   int64
	WithImage  int64
	Comments   int64
	Likes      int64
}

func collectStats(db *gorm.DB) (*contentStats, error) {
	var s contentStats
	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&s.Users, db.Model(&model.User{})},
		{&s.Authors, db.Model(&model.User{}).Where("is_author = ?", true)},
		{&s.Superusers, db.Model(&model.User{}).Where("is_superuser = ?", true)},
		{&s.Inactive, db.Model(&model.User{}).Where("is_active = ?", false)},
		{&s.Categories, db.Model(&model.Category{})},
		{&s.Articles, db.Model(&model.Article{})},
		{&s.WithImage, db.Model(&model.Article{}).Where("image <> ?", "")},
		{&s.Comments, db.Model(&model.Comment{})},
		{&s.Likes, db.Table("article_likes")},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, err
		}
	}
	return &s, nil
}

// showStats 打印统计信息
func showStats(db *gorm.DB) error {
	s, err := collectStats(db)
	if err != nil {
		return err
	}

	fmt.Println("=== 内容统计信息 ===")
	fmt.Printf("用户总数: %d (作者: %d, 超级用户: %d, 已停用: %d)\n", s.Users, s.Authors, s.Superusers, s.Inactive)
	fmt.Printf("分类总数: %d\n", s.Categories)
	fmt.Printf("文章总数: %d (有图片: %d)\n", s.Articles, s.WithImage)
	fmt.Printf("评论总数: %d\n", s.Comments)
	fmt.Printf("点赞总数: %d\n", s.Likes)
	return nil
}
