package locale

import "golang.org/x/text/message"

func init() {
	lang := TraditionalChineseTW

	// Eligibility
	message.SetString(lang, KeyOrderEnded, "訂單已結束")
	message.SetString(lang, KeyCapacityReached, "名額已滿")
	message.SetString(lang, KeyDeadlinePassed, "已過截止時間")

	// Placeholders
	message.SetString(lang, KeyUnknownUser, "未知用戶")
	message.SetString(lang, KeyDeletedItem, "已刪除項目")
	message.SetString(lang, KeyDefaultUserName, "新用戶")

	// CSV export
	message.SetString(lang, KeyCSVParticipant, "參與者")
	message.SetString(lang, KeyCSVItem, "項目")
	message.SetString(lang, KeyCSVQuantity, "數量")
	message.SetString(lang, KeyCSVUnitPrice, "單價")
	message.SetString(lang, KeyCSVOptions, "選項")
	message.SetString(lang, KeyCSVSubtotal, "小計")
	message.SetString(lang, KeyCSVPaymentStatus, "付款狀態")
	message.SetString(lang, KeyCSVPaid, "已付")
	message.SetString(lang, KeyCSVUnpaid, "未付")

	// Timeline
	message.SetString(lang, KeyStatusCreated, "訂單已建立")
	message.SetString(lang, KeyStatusOpened, "訂單已重新開啟，歡迎加入！")
	message.SetString(lang, KeyStatusClosed, "團主已停止收單，正在處理中。")
	message.SetString(lang, KeyStatusArchived, "訂單已封存。")

	// Validation
	message.SetString(lang, KeyNoItems, "請至少選擇一個項目")
	message.SetString(lang, KeyQuantityPositive, "「%s」的數量必須大於 0")
	message.SetString(lang, KeyExceedsMax, "庫存不足：「%s」最多只能訂購 %d 份")
	message.SetString(lang, KeyUnknownItem, "項目不存在或已被移除，請重新選擇")
	message.SetString(lang, KeyUnknownOption, "「%s」的選項已變更，請重新選擇")
	message.SetString(lang, KeyOptionRequired, "請先選擇「%s」再加入購物車")
	message.SetString(lang, KeyNameTooShort, "訂單名稱至少需要 2 個字元")
	message.SetString(lang, KeyNoValidItems, "請至少新增一個有效項目")
	message.SetString(lang, KeyTooManyImages, "每個項目最多只能上傳 %d 張圖片")
	message.SetString(lang, KeyNegativePrice, "價格不能是負數")
	message.SetString(lang, KeyInvalidInput, "輸入資料有誤")
	message.SetString(lang, KeyMessageRequired, "請輸入進度內容")

	// Orders
	message.SetString(lang, KeyAlreadyJoined, "你已經加入此訂單")
	message.SetString(lang, KeyInvalidTransition, "無法變更為此狀態")
	message.SetString(lang, KeyTrackingDisabled, "此訂單未啟用進度追蹤")
	message.SetString(lang, KeyForbidden, "你沒有權限執行此操作")
	message.SetString(lang, KeyRateLimited, "匯入次數過多，請稍候一分鐘再試")
	message.SetString(lang, KeyCSRFInvalid, "頁面已過期，請重新整理後再試")
	message.SetString(lang, KeyNotFound, "找不到訂單")
	message.SetString(lang, KeyNotEditable, "訂單已結束，無法修改")
	message.SetString(lang, KeySummaryNotClosed, "只能為已結束的訂單產生摘要。")
	message.SetString(lang, KeyNotParticipant, "找不到此參與者")

	// Extraction
	message.SetString(lang, KeyExtractMenuFailed, "無法從圖片辨識項目，請稍後再試。")
	message.SetString(lang, KeyExtractLinkFailed, "無法擷取網頁內容，請稍後再試。")
	message.SetString(lang, KeyExtractUnavailable, "AI 功能尚未設定")
	message.SetString(lang, KeySummaryFailed, "無法產生摘要，請稍後再試。")
	message.SetString(lang, KeyImageRequired, "請上傳圖片檔案")
	message.SetString(lang, KeyImageTooLarge, "圖片過大，上限為 10 MB")
	message.SetString(lang, KeyInvalidURL, "請輸入有效的 http 或 https 連結")

	message.SetString(lang, KeyServerError, "系統發生錯誤，請稍後再試。")
	message.SetString(lang, KeySignInRequired, "請先登入")
}
