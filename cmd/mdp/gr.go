package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/riverfjs/mdpub"
	"github.com/riverfjs/mdpub/internal/telegraph"
)

// exportTimeLayout 导出文件名中的时间戳
const exportTimeLayout = "2006-01-02T15-04-05"

var grCmd = &cobra.Command{
	Use:   "gr",
	Short: "Команды для Telegraph",
}

var pageTitle string

var grPostCmd = &cobra.Command{
	Use:     "post <md_path>",
	Aliases: []string{"p"},
	Short:   "Создать страницу Telegraph из Markdown",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		page, err := a.createPage(cmd, args[0], pageTitle)
		if err != nil {
			return err
		}
		a.log.Info("Страница доступна по адресу", "url", page.URL)
		return nil
	},
}

var grEditCmd = &cobra.Command{
	Use:     "edit <page_path> <md_path>",
	Aliases: []string{"e"},
	Short:   "Отредактировать страницу Telegraph",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		compiled, err := mdpub.CompileTelegraph(ctx, args[1], a.convertOptions()...)
		if err != nil {
			return err
		}
		client, err := a.telegraph(ctx)
		if err != nil {
			return err
		}
		page, err := client.EditPage(ctx, args[0], a.pageRequest(compiled, pageTitle))
		if err != nil {
			return fmt.Errorf("edit %s: %w", args[0], err)
		}
		a.log.Info("Страница отредактирована", "url", page.URL)
		return nil
	},
}

var (
	outputPath string
	pageLimit  int
)

var grPagesCmd = &cobra.Command{
	Use:     "get-pages-list",
	Aliases: []string{"gpl"},
	Short:   "Список страниц аккаунта",
	Long: `Возвращает список страниц аккаунта.
С --output-path сохраняет результат в .yaml или .json (с добавлением timestamp),
иначе печатает краткую таблицу.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		client, err := a.telegraph(ctx)
		if err != nil {
			return err
		}
		pages, err := client.AllPages(ctx, pageLimit)
		if err != nil {
			return err
		}
		if len(pages) == 0 {
			a.log.Warn("В ответе нет страниц для отображения или сохранения")
			return nil
		}

		if outputPath == "" {
			fmt.Fprintln(cmd.OutOrStdout(), pagesTable(pages))
			return nil
		}

		path, format := exportPath(outputPath, time.Now())
		if format == "" {
			format = "json"
			path = strings.TrimSuffix(path, filepath.Ext(path)) + ".json"
			a.log.Warn("Неизвестный формат, сохраняю как JSON", "file", path)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := writePages(f, format, pages); err != nil {
			f.Close()
			return fmt.Errorf("export %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		a.log.Info("Результат сохранён", "file", path, "rows", len(pages))
		return nil
	},
}

var grRmCmd = &cobra.Command{
	Use:   "rm <page_path>",
	Short: "Удалить страницу (заменить содержимое на «Deleted»)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		client, err := a.telegraph(cmd.Context())
		if err != nil {
			return err
		}
		page, err := client.DeletePage(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("rm %s: %w", args[0], err)
		}
		a.log.Info("Страница удалена", "path", args[0], "title", page.Title)
		return nil
	},
}

// createPage 编译 md 并创建页面，gr post 与 tgh post 共用
func (a *app) createPage(cmd *cobra.Command, mdPath, title string) (*telegraph.Page, error) {
	ctx := cmd.Context()
	compiled, err := mdpub.CompileTelegraph(ctx, mdPath, a.convertOptions()...)
	if err != nil {
		return nil, err
	}
	client, err := a.telegraph(ctx)
	if err != nil {
		return nil, err
	}
	page, err := client.CreatePage(ctx, a.pageRequest(compiled, title))
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", mdPath, err)
	}
	return page, nil
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Foreground(lipgloss.Color("6")).Align(lipgloss.Right)
	pathStyle   = cellStyle.Foreground(lipgloss.Color("5"))
	viewsStyle  = cellStyle.Foreground(lipgloss.Color("2")).Align(lipgloss.Right)
)

// pagesTable 渲染页面列表，跳过已删除的页面；序号保持在完整列表中的位置
func pagesTable(pages []telegraph.Page) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("№", "Заголовок", "Путь", "Просмотры").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			switch col {
			case 0:
				return numberStyle
			case 2:
				return pathStyle
			case 3:
				return viewsStyle
			}
			return cellStyle
		})
	for i, p := range pages {
		if p.Title == telegraph.DeletedTitle {
			continue
		}
		t.Row(strconv.Itoa(i+1), p.Title, p.Path, strconv.Itoa(p.Views))
	}
	return lipgloss.JoinVertical(lipgloss.Left, headerStyle.Render("Список страниц"), t.String())
}

// exportPath 计算导出文件名：目录下生成 pages_list_<ts>.yaml，
// 文件名则在扩展名前插入时间戳。format 为空表示扩展名不受支持
func exportPath(output string, now time.Time) (path, format string) {
	ts := now.Format(exportTimeLayout)
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		return filepath.Join(output, "pages_list_"+ts+".yaml"), "yaml"
	}

	ext := filepath.Ext(output)
	stem := strings.TrimSuffix(output, ext)
	if ext == "" {
		return stem + "_" + ts + ".yaml", "yaml"
	}
	path = stem + "_" + ts + ext
	switch strings.ToLower(ext) {
	case ".json":
		return path, "json"
	case ".yaml", ".yml":
		return path, "yaml"
	}
	return path, ""
}

type pagesExport struct {
	Pages []telegraph.Page `json:"pages" yaml:"pages"`
}

func writePages(w io.Writer, format string, pages []telegraph.Page) error {
	out := pagesExport{Pages: pages}
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}

func init() {
	for _, c := range []*cobra.Command{grPostCmd, grEditCmd} {
		c.Flags().StringVar(&pageTitle, "title", "", "заголовок страницы (по умолчанию <h1> документа)")
	}
	grPagesCmd.Flags().StringVar(&outputPath, "output-path", "", "папка или файл (.yaml/.json) для сохранения результата")
	grPagesCmd.Flags().IntVar(&pageLimit, "limit", 50, "количество элементов за один запрос к API")

	grCmd.AddCommand(grPostCmd, grEditCmd, grPagesCmd, grRmCmd)
}
