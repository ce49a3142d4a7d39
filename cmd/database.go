package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// dbCmd 数据库管理命令
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "数据库管理命令",
}

// migrateCmd 迁移数据库表结构
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "初始化或迁移数据库表",
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := initializeSystem(); err != nil {
			fmt.Printf("数据库迁移失败: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("数据库表迁移完成")
	},
}

func init() {
	dbCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(dbCmd)
}
