package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lmsgrab/lmsgrab/internal/models"
)

func TestRunLoginSteps(t *testing.T) {
	stepOK := func() error { return nil }
	stepFail := func() error { return fmt.Errorf("元素未找到") }

	tests := []struct {
		name    string
		steps   []loginStep
		wantErr bool
	}{
		{
			name: "全部成功",
			steps: []loginStep{
				{name: "a", required: true, run: stepOK},
				{name: "b", required: false, run: stepOK},
			},
			wantErr: false,
		},
		{
			name: "可选步骤失败被跳过",
			steps: []loginStep{
				{name: "a", required: false, run: stepFail},
				{name: "b", required: true, run: stepOK},
			},
			wantErr: false,
		},
		{
			name: "必需步骤失败终止流程",
			steps: []loginStep{
				{name: "a", required: true, run: stepFail},
				{name: "b", required: true, run: stepOK},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runLoginSteps(tt.steps)
			if (err != nil) != tt.wantErr {
				t.Errorf("runLoginSteps() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, models.ErrAuth) {
				t.Errorf("登录步骤失败必须是认证错误, 实际: %v", err)
			}
		})
	}
}

// 可选步骤失败后,后续步骤必须继续执行
func TestRunLoginSteps_OptionalFailureContinues(t *testing.T) {
	var executed []string

	steps := []loginStep{
		{name: "可选失败", required: false, run: func() error {
			executed = append(executed, "可选失败")
			return fmt.Errorf("弹窗不存在")
		}},
		{name: "后续步骤", required: true, run: func() error {
			executed = append(executed, "后续步骤")
			return nil
		}},
	}

	if err := runLoginSteps(steps); err != nil {
		t.Fatalf("不期望错误: %v", err)
	}
	if len(executed) != 2 || executed[1] != "后续步骤" {
		t.Errorf("可选步骤失败后续未执行: %v", executed)
	}
}

// 必需步骤失败后,后续步骤不再执行
func TestRunLoginSteps_RequiredFailureStops(t *testing.T) {
	var executed []string

	steps := []loginStep{
		{name: "必需失败", required: true, run: func() error {
			executed = append(executed, "必需失败")
			return fmt.Errorf("登录按钮未找到")
		}},
		{name: "不应执行", required: true, run: func() error {
			executed = append(executed, "不应执行")
			return nil
		}},
	}

	err := runLoginSteps(steps)
	if err == nil {
		t.Fatal("期望认证错误")
	}
	if len(executed) != 1 {
		t.Errorf("必需步骤失败后仍有步骤执行: %v", executed)
	}
}
